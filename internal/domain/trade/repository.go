package trade

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionFilter narrows purchase and sale listings
type TransactionFilter struct {
	shared.Filter
	PartyID       *uuid.UUID
	PaymentStatus PaymentStatus
	DueOnly       bool
}

// SequenceRepository hands out document numbers
type SequenceRepository interface {
	// Next advances the counter for prefix and returns the new value. The
	// first call for a prefix starts the counter at seed+1, where seed is the
	// highest suffix already issued under it.
	Next(ctx context.Context, tenantID uuid.UUID, prefix string, seed int) (int, error)
}

// PurchaseRepository persists purchases with their items
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	Save(ctx context.Context, purchase *Purchase) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]Purchase, int64, error)
	LatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

// SaleRepository persists sales with their items
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	Save(ctx context.Context, sale *Sale) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]Sale, int64, error)
	FindByDate(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Sale, error)
	LatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

// PaymentRepository appends payment records
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	CreateSupplierPayment(ctx context.Context, payment *SupplierPayment) error
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]Payment, error)
	FindByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]SupplierPayment, error)
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, int64, error)
	Save(ctx context.Context, supplier *Supplier) error
}
