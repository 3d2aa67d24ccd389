package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/infrastructure/auth"
	"github.com/storeops/backend/internal/infrastructure/logger"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware.
const (
	SessionKey    = "session"
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is optional; when set, revoked tokens are rejected.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are exact paths that don't require authentication.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication.
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultJWTConfig returns the default middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware with defaults
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token, checks the
// blacklist, and puts the resulting shared.Session into the gin context.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail open: a blacklist outage must not take the API down.
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token blacklist",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			} else if revoked {
				handleAuthError(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
				return
			}
		}

		session, err := claims.Session()
		if err != nil {
			handleAuthError(c, cfg, err, "Token claims are malformed")
			return
		}

		c.Set(SessionKey, session)
		c.Set(JWTClaimsKey, claims)

		// Propagate identity into the request context for logging.
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithStoreID(ctx, log, session.StoreID.String())
		ctx, _ = logger.WithUserID(ctx, log, session.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "TOKEN_NOT_VALID"
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenRevoked):
		errorCode = "TOKEN_REVOKED"
		errorMessage = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidClaims):
		errorCode = "INVALID_TOKEN"
		errorMessage = "Token claims are malformed"
	case errors.Is(err, auth.ErrInvalidToken):
		errorCode = "INVALID_TOKEN"
		errorMessage = "Invalid token"
	}

	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(errorCode, errorMessage, requestID))
}

// GetSession retrieves the authenticated session from the gin context
func GetSession(c *gin.Context) (shared.Session, bool) {
	value, exists := c.Get(SessionKey)
	if !exists {
		return shared.Session{}, false
	}
	session, ok := value.(shared.Session)
	return session, ok
}

// GetJWTClaims retrieves the raw JWT claims from the gin context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if value, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
