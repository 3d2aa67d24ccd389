package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/application/reconcile"
	"github.com/storeops/backend/internal/domain/shared"
)

// StatsSummarizer produces the returns summary for a store. Implemented by
// both the plain and the cached stats service.
type StatsSummarizer interface {
	Summarize(ctx context.Context, session shared.Session) (*reconcile.StatsResponse, error)
}

// StatsHandler serves the returns statistics endpoints.
type StatsHandler struct {
	BaseHandler
	service StatsSummarizer
}

// NewStatsHandler creates a StatsHandler
func NewStatsHandler(service StatsSummarizer, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Summary handles GET /returns/stats
func (h *StatsHandler) Summary(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
