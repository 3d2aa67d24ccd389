package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/application/catalog"
	"github.com/storeops/backend/internal/infrastructure/csvimport"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// maxImportFileSize caps uploaded CSV files at 10 MiB.
const maxImportFileSize = 10 << 20

// ProductImportHandler serves the CSV batch import endpoints. Imports run
// synchronously; the session store exists so a concurrent request can poll
// progress or abort a running batch.
type ProductImportHandler struct {
	BaseHandler
	service  *catalog.ProductImportService
	sessions csvimport.SessionStore
}

// NewProductImportHandler creates a ProductImportHandler
func NewProductImportHandler(
	service *catalog.ProductImportService,
	sessions csvimport.SessionStore,
	logger *zap.Logger,
) *ProductImportHandler {
	return &ProductImportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		sessions:    sessions,
	}
}

// Upload handles POST /catalog/products/import
func (h *ProductImportHandler) Upload(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusRequestEntityTooLarge,
			dto.NewErrorResponse("REQUEST_TOO_LARGE", "Import file exceeds maximum allowed size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	defer file.Close()

	importSession := csvimport.NewImportSession(session.StoreID, session.UserID, fileHeader.Filename)
	if err := h.sessions.Save(importSession); err != nil {
		h.HandleError(c, err)
		return
	}

	report, err := h.service.Import(c.Request.Context(), session, importSession, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"session_id": importSession.ID,
		"report":     report,
	})
}

// Status handles GET /catalog/products/import/:id
func (h *ProductImportHandler) Status(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}

	importSession, err := h.sessions.Get(uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if importSession == nil || importSession.StoreID != session.StoreID {
		c.JSON(http.StatusNotFound,
			dto.NewErrorResponse(dto.ErrCodeNotFound, "Import session not found"))
		return
	}
	h.Success(c, importSession)
}

// Abort handles POST /catalog/products/import/:id/abort. Abortion is
// cooperative: rows applied before the worker notices stay applied.
func (h *ProductImportHandler) Abort(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}

	importSession, err := h.sessions.Get(uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if importSession == nil || importSession.StoreID != session.StoreID {
		c.JSON(http.StatusNotFound,
			dto.NewErrorResponse(dto.ErrCodeNotFound, "Import session not found"))
		return
	}

	importSession.Abort()
	h.Success(c, gin.H{"session_id": importSession.ID, "state": importSession.State})
}
