package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSKUPrefix is used for products without a category
const DefaultSKUPrefix = "PRD"

// Product is a sellable item of a shop: a paper grade, a notebook, a pen.
type Product struct {
	shared.TenantAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Barcode      string          `gorm:"type:varchar(50);index"`
	Description  string          `gorm:"type:text"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	UnitID       *uuid.UUID      `gorm:"type:uuid"`
	GSMTypeID    *uuid.UUID      `gorm:"type:uuid"`
	PaperSizeID  *uuid.UUID      `gorm:"type:uuid"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. The SKU may be empty and assigned later
// from the category sequence.
func NewProduct(tenantID uuid.UUID, name string, buyingPrice, sellingPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		IsActive:            true,
	}
	if err := p.SetPrices(buyingPrice, sellingPrice); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPrices sets both prices, rounded to 2 decimal places
func (p *Product) SetPrices(buyingPrice, sellingPrice decimal.Decimal) error {
	if buyingPrice.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidPrice, "Buying price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewValidationError(shared.CodeInvalidPrice, "Selling price cannot be negative")
	}
	p.BuyingPrice = buyingPrice.Round(2)
	p.SellingPrice = sellingPrice.Round(2)
	p.Touch()
	return nil
}

// UpdateDetails replaces the descriptive fields of the product
func (p *Product) UpdateDetails(name, description, barcode string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	barcode = strings.TrimSpace(barcode)
	if len(barcode) > 50 {
		return shared.NewValidationError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	p.Name = strings.TrimSpace(name)
	p.Description = strings.TrimSpace(description)
	p.Barcode = barcode
	p.Touch()
	return nil
}

// AssignSKU sets the stock-keeping unit code
func (p *Product) AssignSKU(sku string) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return shared.NewValidationError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewValidationError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	p.SKU = sku
	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// SetPaperSpec links the unit, GSM grade and paper size reference rows
func (p *Product) SetPaperSpec(unitID, gsmTypeID, paperSizeID *uuid.UUID) {
	p.UnitID = unitID
	p.GSMTypeID = gsmTypeID
	p.PaperSizeID = paperSizeID
	p.Touch()
}

// Deactivate hides the product from sale
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// ProfitMargin is selling price minus buying price
func (p *Product) ProfitMargin() decimal.Decimal {
	return p.SellingPrice.Sub(p.BuyingPrice)
}

// ProfitPercentage is the margin relative to buying price, or 0 when the
// product was bought for nothing.
func (p *Product) ProfitPercentage() decimal.Decimal {
	if !p.BuyingPrice.IsPositive() {
		return decimal.Zero
	}
	return p.ProfitMargin().Div(p.BuyingPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// SKUPrefix derives the SKU prefix from a category name: its first three
// letters upper-cased, or PRD when there is no category.
func SKUPrefix(categoryName string) string {
	name := strings.TrimSpace(categoryName)
	if name == "" {
		return DefaultSKUPrefix
	}
	if utf8.RuneCountInString(name) > 3 {
		name = string([]rune(name)[:3])
	}
	return strings.ToUpper(name)
}

// NextSKU returns the SKU that follows the latest one under prefix
func NextSKU(prefix, lastSKU string) string {
	return shared.NextInSequence(prefix, lastSKU)
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
