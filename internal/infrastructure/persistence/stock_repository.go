package persistence

import (
	"context"
	"errors"

	"github.com/dokan/papershop/internal/domain/inventory"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByProduct finds the stock row of a product
func (r *GormStockRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.Stock, error) {
	var stock inventory.Stock
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&stock).Error
	if err != nil {
		return nil, translate(err, "Stock", nil)
	}
	return &stock, nil
}

// FindByProductForUpdate finds the stock row with SELECT ... FOR UPDATE.
// It must run inside a transaction; SQLite ignores the locking clause and
// relies on its single writer instead.
func (r *GormStockRepository) FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.Stock, error) {
	var stock inventory.Stock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&stock).Error
	if err != nil {
		return nil, translate(err, "Stock", nil)
	}
	return &stock, nil
}

// GetOrCreateForUpdate locks the product's stock row, inserting an empty one
// at the default reorder level when the product has never been stocked.
func (r *GormStockRepository) GetOrCreateForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.Stock, error) {
	stock, err := r.FindByProductForUpdate(ctx, tenantID, productID)
	if err == nil {
		return stock, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	fresh, err := inventory.NewStock(tenantID, productID, inventory.DefaultReorderLevel)
	if err != nil {
		return nil, err
	}
	// a concurrent creator wins the unique index; both then lock its row
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tenant_id"}, {Name: "product_id"}}, DoNothing: true}).
		Create(fresh).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	return r.FindByProductForUpdate(ctx, tenantID, productID)
}

// FindAllForTenant lists stock rows
func (r *GormStockRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Stock, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Stock{}).Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "low_stock":
			if value == true {
				query = query.Where("quantity <= reorder_level")
			}
		}
	}
	return findPage[inventory.Stock](query, filter, StockSortFields, "updated_at")
}

// FindLowStock lists rows at or below their reorder level
func (r *GormStockRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]inventory.Stock, error) {
	var stocks []inventory.Stock
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND quantity <= reorder_level", tenantID).
		Order("quantity ASC").
		Find(&stocks).Error
	return stocks, err
}

// Save creates or updates a stock row
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
