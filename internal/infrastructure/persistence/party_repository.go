package persistence

import (
	"context"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Customer, error) {
	var customer trade.Customer
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&customer).Error
	if err != nil {
		return nil, translate(err, "Customer", nil)
	}
	return &customer, nil
}

// FindAllForTenant lists customers
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Customer, int64, error) {
	query := applyPartyFilter(r.db.WithContext(ctx).Model(&trade.Customer{}).Where("tenant_id = ?", tenantID), filter)
	return findPage[trade.Customer](query, filter, PartySortFields, "name")
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *trade.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Supplier, error) {
	var supplier trade.Supplier
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&supplier).Error
	if err != nil {
		return nil, translate(err, "Supplier", nil)
	}
	return &supplier, nil
}

// FindAllForTenant lists suppliers
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Supplier, int64, error) {
	query := applyPartyFilter(r.db.WithContext(ctx).Model(&trade.Supplier{}).Where("tenant_id = ?", tenantID), filter)
	return findPage[trade.Supplier](query, filter, PartySortFields, "name")
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *trade.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func applyPartyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}

var (
	_ trade.CustomerRepository = (*GormCustomerRepository)(nil)
	_ trade.SupplierRepository = (*GormSupplierRepository)(nil)
)
