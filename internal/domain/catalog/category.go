package catalog

import (
	"strings"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products and seeds their SKU prefix
type Category struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(tenantID uuid.UUID, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		IsActive:            true,
	}, nil
}

// SKUPrefix returns the prefix used for SKUs of products in this category
func (c *Category) SKUPrefix() string {
	return SKUPrefix(c.Name)
}
