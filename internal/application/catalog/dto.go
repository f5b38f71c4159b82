package catalog

import (
	"time"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product.
// A blank SKU is generated from the category prefix.
type CreateProductRequest struct {
	SKU          string           `json:"sku" binding:"max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	Barcode      string           `json:"barcode" binding:"max=50"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	UnitID       *uuid.UUID       `json:"unit_id"`
	GSMTypeID    *uuid.UUID       `json:"gsm_type_id"`
	PaperSizeID  *uuid.UUID       `json:"paper_size_id"`
	BuyingPrice  decimal.Decimal  `json:"buying_price" binding:"gte=0"`
	SellingPrice decimal.Decimal  `json:"selling_price" binding:"gte=0"`
	InitialStock decimal.Decimal  `json:"initial_stock" binding:"gte=0"`
	ReorderLevel *decimal.Decimal `json:"reorder_level" binding:"omitempty,gte=0"`
}

// UpdateProductRequest represents a request to update a product. Nil fields
// are left unchanged.
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	Barcode      *string          `json:"barcode" binding:"omitempty,max=50"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	UnitID       *uuid.UUID       `json:"unit_id"`
	GSMTypeID    *uuid.UUID       `json:"gsm_type_id"`
	PaperSizeID  *uuid.UUID       `json:"paper_size_id"`
	BuyingPrice  *decimal.Decimal `json:"buying_price" binding:"omitempty,gte=0"`
	SellingPrice *decimal.Decimal `json:"selling_price" binding:"omitempty,gte=0"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	ActiveOnly bool       `form:"active_only"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Barcode          string          `json:"barcode"`
	CategoryID       *uuid.UUID      `json:"category_id"`
	UnitID           *uuid.UUID      `json:"unit_id"`
	GSMTypeID        *uuid.UUID      `json:"gsm_type_id"`
	PaperSizeID      *uuid.UUID      `json:"paper_size_id"`
	BuyingPrice      decimal.Decimal `json:"buying_price"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SKUPrefix   string    `json:"sku_prefix"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUnitRequest represents a request to add a shop-specific unit
type CreateUnitRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	ShortName string `json:"short_name" binding:"required,max=10"`
}

// CreateGSMTypeRequest represents a request to add a shop-specific GSM grade
type CreateGSMTypeRequest struct {
	Value       int    `json:"value" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=100"`
}

// CreatePaperSizeRequest represents a request to add a shop-specific paper size
type CreatePaperSizeRequest struct {
	Name     string           `json:"name" binding:"required,max=50"`
	WidthMM  *decimal.Decimal `json:"width_mm" binding:"omitempty,gte=0"`
	HeightMM *decimal.Decimal `json:"height_mm" binding:"omitempty,gte=0"`
}

// ReferenceResponse is one unit, GSM grade or paper size
type ReferenceResponse struct {
	ID       uuid.UUID        `json:"id"`
	Label    string           `json:"label"`
	Name     string           `json:"name,omitempty"`
	Short    string           `json:"short_name,omitempty"`
	Value    int              `json:"value,omitempty"`
	WidthMM  *decimal.Decimal `json:"width_mm,omitempty"`
	HeightMM *decimal.Decimal `json:"height_mm,omitempty"`
	IsGlobal bool             `json:"is_global"`
}

// ReferenceDataResponse bundles every reference list a product form needs
type ReferenceDataResponse struct {
	Units      []ReferenceResponse `json:"units"`
	GSMTypes   []ReferenceResponse `json:"gsm_types"`
	PaperSizes []ReferenceResponse `json:"paper_sizes"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		SKU:              p.SKU,
		Name:             p.Name,
		Description:      p.Description,
		Barcode:          p.Barcode,
		CategoryID:       p.CategoryID,
		UnitID:           p.UnitID,
		GSMTypeID:        p.GSMTypeID,
		PaperSizeID:      p.PaperSizeID,
		BuyingPrice:      p.BuyingPrice,
		SellingPrice:     p.SellingPrice,
		ProfitMargin:     p.ProfitMargin(),
		ProfitPercentage: p.ProfitPercentage(),
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		SKUPrefix:   c.SKUPrefix(),
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func unitResponse(u *catalog.Unit) ReferenceResponse {
	return ReferenceResponse{ID: u.ID, Label: u.Label(), Name: u.Name, Short: u.ShortName, IsGlobal: u.Scope.IsGlobal()}
}

func gsmResponse(g *catalog.GSMType) ReferenceResponse {
	return ReferenceResponse{ID: g.ID, Label: g.Label(), Value: g.Value, Name: g.Description, IsGlobal: g.Scope.IsGlobal()}
}

func paperSizeResponse(p *catalog.PaperSize) ReferenceResponse {
	return ReferenceResponse{ID: p.ID, Label: p.Name, Name: p.Name, WidthMM: p.WidthMM, HeightMM: p.HeightMM, IsGlobal: p.Scope.IsGlobal()}
}
