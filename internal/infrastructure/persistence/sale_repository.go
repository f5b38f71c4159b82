package persistence

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts a sale together with its items
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	return translate(r.db.WithContext(ctx).Create(sale).Error, "Sale", shared.ErrDuplicateNumber)
}

// Save updates the sale header
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

// FindByIDForTenant loads a sale with its items
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error
	if err != nil {
		return nil, translate(err, "Sale", nil)
	}
	return &sale, nil
}

// FindByIDForUpdate locks the sale header for a payment
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error
	if err != nil {
		return nil, translate(err, "Sale", nil)
	}
	return &sale, nil
}

// FindAllForTenant lists sales without their items
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.TransactionFilter) ([]trade.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Sale{}).Where("tenant_id = ?", tenantID)
	if filter.PartyID != nil {
		query = query.Where("customer_id = ?", *filter.PartyID)
	}
	query = applyTransactionFilter(query, filter, "sale_date", "invoice_number")
	return findPage[trade.Sale](query, filter.Filter, SaleSortFields, "sale_date")
}

// FindByDate lists the sales of one UTC day with their items
func (r *GormSaleRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]trade.Sale, error) {
	start := finance.Day(day)
	var sales []trade.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND sale_date >= ? AND sale_date < ?", tenantID, start, start.AddDate(0, 0, 1)).
		Order("invoice_number ASC").
		Find(&sales).Error
	return sales, err
}

// LatestNumber returns the highest invoice number under prefix
func (r *GormSaleRepository) LatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return latestNumber(r.db.WithContext(ctx).Model(&trade.Sale{}), tenantID, "invoice_number", prefix)
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
