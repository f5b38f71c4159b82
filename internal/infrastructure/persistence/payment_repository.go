package persistence

import (
	"context"

	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository appends customer and supplier payments
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// CreatePayment inserts a payment received against a sale
func (r *GormPaymentRepository) CreatePayment(ctx context.Context, payment *trade.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateSupplierPayment inserts a payment made against a purchase
func (r *GormPaymentRepository) CreateSupplierPayment(ctx context.Context, payment *trade.SupplierPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindBySale lists the payments of a sale in the order they were taken
func (r *GormPaymentRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]trade.Payment, error) {
	var payments []trade.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

// FindByPurchase lists the payments of a purchase in the order they were made
func (r *GormPaymentRepository) FindByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]trade.SupplierPayment, error) {
	var payments []trade.SupplierPayment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND purchase_id = ?", tenantID, purchaseID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

var _ trade.PaymentRepository = (*GormPaymentRepository)(nil)
