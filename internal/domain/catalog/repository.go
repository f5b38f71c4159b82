package catalog

import (
	"context"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	// LatestSKU returns the highest SKU under prefix, or "" when there is none
	LatestSKU(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
	Save(ctx context.Context, product *Product) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}

// ReferenceDataRepository reads units, GSM grades and paper sizes visible to a
// tenant: its own rows plus the global ones.
type ReferenceDataRepository interface {
	ListUnits(ctx context.Context, tenantID uuid.UUID) ([]Unit, error)
	ListGSMTypes(ctx context.Context, tenantID uuid.UUID) ([]GSMType, error)
	ListPaperSizes(ctx context.Context, tenantID uuid.UUID) ([]PaperSize, error)
	SaveUnit(ctx context.Context, unit *Unit) error
	SaveGSMType(ctx context.Context, gsm *GSMType) error
	SavePaperSize(ctx context.Context, size *PaperSize) error
}
