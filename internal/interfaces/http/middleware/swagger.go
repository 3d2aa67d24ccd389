package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// SwaggerConfig controls access to the API documentation endpoints.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	// AllowedIPs restricts access to the listed IPs or CIDR ranges.
	// Empty means no IP restriction.
	AllowedIPs []string
}

// SwaggerProtection guards the swagger routes. Disabled docs answer 404 so
// the endpoint's existence is not revealed.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	var allowedNets []*net.IPNet
	var allowedIPs []net.IP
	for _, entry := range cfg.AllowedIPs {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				allowedNets = append(allowedNets, network)
			}
		} else if ip := net.ParseIP(entry); ip != nil {
			allowedIPs = append(allowedIPs, ip)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponse(dto.ErrCodeNotFound, "API documentation is not available"))
			return
		}

		if len(cfg.AllowedIPs) > 0 && !clientIPAllowed(c, allowedIPs, allowedNets) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Access to API documentation is restricted"))
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

func clientIPAllowed(c *gin.Context, allowedIPs []net.IP, allowedNets []*net.IPNet) bool {
	ip := net.ParseIP(c.ClientIP())
	if ip == nil {
		return false
	}
	for _, allowed := range allowedIPs {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range allowedNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
