package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/application/catalog"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	BaseHandler
	service *catalog.ProductService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(service *catalog.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Create handles POST /catalog/products
func (h *ProductHandler) Create(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.service.Create(c.Request.Context(), session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get handles GET /catalog/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), session, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// productListQuery extends the shared list query with the kind filter.
type productListQuery struct {
	dto.ListRequest
	Kind string `form:"kind" binding:"omitempty,oneof=bulk serialized"`
}

// List handles GET /catalog/products
func (h *ProductHandler) List(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	query := productListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	filter := query.ToFilter()
	products, total, err := h.service.List(c.Request.Context(), session, catalog.ProductListFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Kind:     query.Kind,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, dto.NewMeta(filter.Page, filter.PageSize, total))
}

// Update handles PUT /catalog/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}
	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.service.Update(c.Request.Context(), session, uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Restock handles POST /catalog/products/:id/restock
func (h *ProductHandler) Restock(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}
	var req catalog.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.service.Restock(c.Request.Context(), session, uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AppendUnits handles POST /catalog/products/:id/units
func (h *ProductHandler) AppendUnits(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}
	var req catalog.AppendUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.service.AppendUnits(c.Request.Context(), session, uri.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /catalog/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), session, uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CheckDeviceID handles POST /catalog/products/check-device-id
func (h *ProductHandler) CheckDeviceID(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var req catalog.CheckDeviceIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.service.CheckDeviceID(c.Request.Context(), session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Inventory handles GET /catalog/products/:id/inventory
func (h *ProductHandler) Inventory(c *gin.Context) {
	session, ok := h.Session(c)
	if !ok {
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}

	counter, err := h.service.Inventory(c.Request.Context(), session, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counter)
}
