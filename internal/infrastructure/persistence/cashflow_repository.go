package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashFlowRepository implements CashFlowRepository using GORM
type GormCashFlowRepository struct {
	db *gorm.DB
}

// NewGormCashFlowRepository creates a new GormCashFlowRepository
func NewGormCashFlowRepository(db *gorm.DB) *GormCashFlowRepository {
	return &GormCashFlowRepository{db: db}
}

// FindByDate returns the row for day, or nil when none is stored
func (r *GormCashFlowRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, day time.Time) (*finance.DailyCashFlow, error) {
	var row finance.DailyCashFlow
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND date = ?", tenantID, finance.Day(day)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindRange lists the stored rows of period in date order
func (r *GormCashFlowRepository) FindRange(ctx context.Context, tenantID uuid.UUID, period finance.Period) ([]finance.DailyCashFlow, error) {
	var rows []finance.DailyCashFlow
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND date >= ? AND date < ?", tenantID, period.From, period.End()).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// Upsert inserts the row or overwrites the computed columns of the stored one.
// Closed rows are never overwritten.
func (r *GormCashFlowRepository) Upsert(ctx context.Context, row *finance.DailyCashFlow) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "date"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "daily_cash_flows", Name: "is_closed"}, Value: false},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"opening_balance", "total_income", "total_expense", "closing_balance", "updated_at",
		}),
	}).Create(row).Error
}

// Save updates a stored row
func (r *GormCashFlowRepository) Save(ctx context.Context, row *finance.DailyCashFlow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

var _ finance.CashFlowRepository = (*GormCashFlowRepository)(nil)
