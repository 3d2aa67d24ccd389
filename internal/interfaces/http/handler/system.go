package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/infrastructure/persistence"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// SystemHandler serves health and readiness probes.
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	redis   *redis.Client
	version string
	started time.Time
}

// NewSystemHandler creates a SystemHandler. The redis client may be nil
// when pub/sub fan-out is not configured.
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		db:          db,
		redis:       redisClient,
		version:     version,
		started:     time.Now(),
	}
}

// Health handles GET /health. It always answers 200 while the process is
// up; use Ready for dependency checks.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}))
}

// Ready handles GET /ready, probing the database and, when configured,
// redis. Any failed dependency turns the probe into a 503.
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.NewSuccessResponse(gin.H{"healthy": healthy, "checks": checks}))
}
