package persistence

import (
	"context"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByIDForTenant finds a ledger entry by ID within a tenant
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	var tx finance.Transaction
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&tx).Error
	if err != nil {
		return nil, translate(err, "Transaction", nil)
	}
	return &tx, nil
}

// FindAllForTenant lists ledger entries, newest date first by default
func (r *GormTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.TransactionFilter) ([]finance.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&finance.Transaction{}).Where("tenant_id = ?", tenantID)
	if filter.Type != "" {
		query = query.Where("transaction_type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date < ?", *filter.To)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(description) LIKE ? OR LOWER(reference) LIKE ?", pattern, pattern)
	}
	return findPage[finance.Transaction](query, filter.Filter, TransactionSortFields, "transaction_date")
}

// Save creates or updates a ledger entry
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	return translate(r.db.WithContext(ctx).Save(tx).Error, "Transaction", nil)
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
