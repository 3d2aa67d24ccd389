package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/application/reconcile"
)

// LocatorHandler serves the sold-unit lookup endpoints used to start a
// return: by exact receipt code or by device identifier fragment.
type LocatorHandler struct {
	BaseHandler
	service *reconcile.LocatorService
}

// NewLocatorHandler creates a LocatorHandler
func NewLocatorHandler(service *reconcile.LocatorService, logger *zap.Logger) *LocatorHandler {
	return &LocatorHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

type receiptLookupQuery struct {
	Code string `form:"code" binding:"required,max=64"`
}

// ByReceipt handles GET /returns/locate/receipt?code=...
func (h *LocatorHandler) ByReceipt(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var query receiptLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	units, err := h.service.FindByReceipt(c.Request.Context(), session, query.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

type deviceLookupQuery struct {
	Query string `form:"q" binding:"required,max=64"`
}

// ByDevice handles GET /returns/locate/device?q=...
func (h *LocatorHandler) ByDevice(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var query deviceLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	units, err := h.service.FindByDeviceID(c.Request.Context(), session, query.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}
