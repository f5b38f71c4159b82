package trade

import (
	"strings"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact holds the fields customers and suppliers share
type Contact struct {
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(50)"`
	Email   string `gorm:"type:varchar(200)"`
	Address string `gorm:"type:text"`
	Company string `gorm:"type:varchar(200)"`
	Notes   string `gorm:"type:text"`
}

func (c *Contact) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if c.Name == "" {
		return shared.NewValidationError("INVALID_NAME", "Name cannot be empty")
	}
	if len(c.Name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

// Customer buys from the shop
type Customer struct {
	shared.TenantAggregateRoot
	Contact
	IsActive bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, contact Contact) (*Customer, error) {
	if err := contact.normalize(); err != nil {
		return nil, err
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Contact:             contact,
		IsActive:            true,
	}, nil
}

// Supplier sells paper stock to the shop
type Supplier struct {
	shared.TenantAggregateRoot
	Contact
	IsActive bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, contact Contact) (*Supplier, error) {
	if err := contact.normalize(); err != nil {
		return nil, err
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Contact:             contact,
		IsActive:            true,
	}, nil
}
