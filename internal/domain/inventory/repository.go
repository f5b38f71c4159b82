package inventory

import (
	"context"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
)

// StockRepository persists stock rows
type StockRepository interface {
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*Stock, error)
	// FindByProductForUpdate locks the row for the rest of the transaction
	FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*Stock, error)
	// GetOrCreateForUpdate locks the row, creating an empty one first if needed
	GetOrCreateForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*Stock, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Stock, int64, error)
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]Stock, error)
	Save(ctx context.Context, stock *Stock) error
}

// StockMovementRepository is append-only
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	CreateBatch(ctx context.Context, movements []*StockMovement) error
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) ([]StockMovement, int64, error)
}

// MovementFilter narrows a movement listing
type MovementFilter struct {
	shared.Filter
	ProductID    *uuid.UUID
	MovementType MovementType
	Reference    string
}

// StockAlertRepository persists low-stock alerts
type StockAlertRepository interface {
	Create(ctx context.Context, alert *StockAlert) error
	FindForTenant(ctx context.Context, tenantID uuid.UUID, unreadOnly bool) ([]StockAlert, error)
	MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
