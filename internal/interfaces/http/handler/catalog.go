package handler

import (
	catalogapp "github.com/dokan/papershop/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves products
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create adds a product and opens its stock row.
// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productService.Create(c.Request.Context(), p.TenantID, p.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update changes product fields.
// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productService.Update(c.Request.Context(), p.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate hides a product from sale.
// DELETE /products/:id
func (h *ProductHandler) Deactivate(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Deactivate(c.Request.Context(), p.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID returns one product.
// GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.productService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of products.
// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	products, total, err := h.productService.List(c.Request.Context(), p.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// CategoryHandler serves product categories
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create adds a category.
// POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categoryService.Create(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one category.
// GET /categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.categoryService.GetByID(c.Request.Context(), p.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns all categories.
// GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	categories, err := h.categoryService.List(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ReferenceHandler serves units, GSM grades and paper sizes
type ReferenceHandler struct {
	BaseHandler
	referenceService *catalogapp.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(referenceService *catalogapp.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// GetAll returns every reference list in one response.
// GET /reference
func (h *ReferenceHandler) GetAll(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.referenceService.GetAll(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListUnits GET /reference/units
func (h *ReferenceHandler) ListUnits(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	units, err := h.referenceService.ListUnits(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

// ListGSMTypes GET /reference/gsm-types
func (h *ReferenceHandler) ListGSMTypes(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	types, err := h.referenceService.ListGSMTypes(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// ListPaperSizes GET /reference/paper-sizes
func (h *ReferenceHandler) ListPaperSizes(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	sizes, err := h.referenceService.ListPaperSizes(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sizes)
}

// CreateUnit POST /reference/units
func (h *ReferenceHandler) CreateUnit(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalogapp.CreateUnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.referenceService.CreateUnit(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateGSMType POST /reference/gsm-types
func (h *ReferenceHandler) CreateGSMType(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalogapp.CreateGSMTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.referenceService.CreateGSMType(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreatePaperSize POST /reference/paper-sizes
func (h *ReferenceHandler) CreatePaperSize(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req catalogapp.CreatePaperSizeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.referenceService.CreatePaperSize(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
