package persistence

import (
	"context"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Create inserts a purchase together with its items
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	return translate(r.db.WithContext(ctx).Create(purchase).Error, "Purchase", shared.ErrDuplicateNumber)
}

// Save updates the purchase header; items are immutable once recorded
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(purchase).Error
}

// FindByIDForTenant loads a purchase with its items
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&purchase).Error
	if err != nil {
		return nil, translate(err, "Purchase", nil)
	}
	return &purchase, nil
}

// FindByIDForUpdate locks the purchase header for a payment
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&purchase).Error
	if err != nil {
		return nil, translate(err, "Purchase", nil)
	}
	return &purchase, nil
}

// FindAllForTenant lists purchases without their items
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.TransactionFilter) ([]trade.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Purchase{}).Where("tenant_id = ?", tenantID)
	if filter.PartyID != nil {
		query = query.Where("supplier_id = ?", *filter.PartyID)
	}
	query = applyTransactionFilter(query, filter, "purchase_date", "purchase_number")
	return findPage[trade.Purchase](query, filter.Filter, PurchaseSortFields, "purchase_date")
}

// LatestNumber returns the highest purchase number under prefix
func (r *GormPurchaseRepository) LatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return latestNumber(r.db.WithContext(ctx).Model(&trade.Purchase{}), tenantID, "purchase_number", prefix)
}

// applyTransactionFilter applies the status, due and date filters shared by
// purchases and sales
func applyTransactionFilter(query *gorm.DB, filter trade.TransactionFilter, dateColumn, numberColumn string) *gorm.DB {
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.DueOnly {
		query = query.Where("due_amount > 0")
	}
	if filter.From != nil {
		query = query.Where(dateColumn+" >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where(dateColumn+" < ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where("LOWER("+numberColumn+") LIKE ?", likePattern(filter.Search))
	}
	return query
}

// latestNumber returns the lexically highest document number under prefix.
// Suffixes are zero-padded so this is also the numerically highest.
func latestNumber(query *gorm.DB, tenantID uuid.UUID, column, prefix string) (string, error) {
	var numbers []string
	err := query.
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, prefix+"-%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
