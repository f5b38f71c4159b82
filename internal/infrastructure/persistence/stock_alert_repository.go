package persistence

import (
	"context"

	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockAlertRepository persists low-stock alerts
type GormStockAlertRepository struct {
	db *gorm.DB
}

// NewGormStockAlertRepository creates a new GormStockAlertRepository
func NewGormStockAlertRepository(db *gorm.DB) *GormStockAlertRepository {
	return &GormStockAlertRepository{db: db}
}

// Create inserts an alert
func (r *GormStockAlertRepository) Create(ctx context.Context, alert *inventory.StockAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// FindForTenant lists alerts, newest first
func (r *GormStockAlertRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, unreadOnly bool) ([]inventory.StockAlert, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var alerts []inventory.StockAlert
	err := query.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// MarkAllRead flags every unread alert of the tenant as read
func (r *GormStockAlertRepository) MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&inventory.StockAlert{}).
		Where("tenant_id = ? AND is_read = ?", tenantID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

var _ inventory.StockAlertRepository = (*GormStockAlertRepository)(nil)
