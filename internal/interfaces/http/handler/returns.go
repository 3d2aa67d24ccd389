package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/application/reconcile"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// ReturnsHandler serves the returns ledger endpoints.
type ReturnsHandler struct {
	BaseHandler
	service *reconcile.LedgerService
}

// NewReturnsHandler creates a ReturnsHandler
func NewReturnsHandler(service *reconcile.LedgerService, logger *zap.Logger) *ReturnsHandler {
	return &ReturnsHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Create handles POST /returns. A batch is not transactional: on partial
// failure the entries already created are reported alongside the failures
// with a 422, and they stay applied.
func (h *ReturnsHandler) Create(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var req reconcile.CreateReturnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.service.Create(c.Request.Context(), session, req)
	if err != nil {
		if errors.Is(err, shared.ErrPartialBatchFailure) {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
				shared.ErrPartialBatchFailure.Code, shared.ErrPartialBatchFailure.Message, result))
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /returns/:id
func (h *ReturnsHandler) Get(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), session, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// returnsListQuery extends the shared list query with a status filter.
type returnsListQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected refunded"`
}

// List handles GET /returns
func (h *ReturnsHandler) List(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	query := returnsListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	filter := query.ToFilter()
	if query.Status != "" {
		filter.Filters = map[string]interface{}{"status": query.Status}
	}

	records, total, err := h.service.List(c.Request.Context(), session, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, dto.NewMeta(filter.Page, filter.PageSize, total))
}

// Update handles PUT /returns/:id
func (h *ReturnsHandler) Update(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}
	var req reconcile.UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	record, err := h.service.Update(c.Request.Context(), session, uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete handles POST /returns/delete, removing entries in batch
func (h *ReturnsHandler) Delete(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var req reconcile.DeleteReturnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}
