package persistence

import (
	"context"

	"github.com/dokan/papershop/internal/domain/catalog"
	"github.com/dokan/papershop/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReferenceDataRepository serves units, GSM grades and paper sizes.
// Each list merges the global rows with the ones the tenant added.
type GormReferenceDataRepository struct {
	db *gorm.DB
}

// NewGormReferenceDataRepository creates a new GormReferenceDataRepository
func NewGormReferenceDataRepository(db *gorm.DB) *GormReferenceDataRepository {
	return &GormReferenceDataRepository{db: db}
}

// ListUnits returns the units visible to tenantID
func (r *GormReferenceDataRepository) ListUnits(ctx context.Context, tenantID uuid.UUID) ([]catalog.Unit, error) {
	var units []catalog.Unit
	err := r.db.WithContext(ctx).Scopes(tenant.VisibleScope(tenantID)).Order("name ASC").Find(&units).Error
	return units, err
}

// ListGSMTypes returns the GSM grades visible to tenantID, lightest first
func (r *GormReferenceDataRepository) ListGSMTypes(ctx context.Context, tenantID uuid.UUID) ([]catalog.GSMType, error) {
	var grades []catalog.GSMType
	err := r.db.WithContext(ctx).Scopes(tenant.VisibleScope(tenantID)).Order("value ASC").Find(&grades).Error
	return grades, err
}

// ListPaperSizes returns the paper sizes visible to tenantID
func (r *GormReferenceDataRepository) ListPaperSizes(ctx context.Context, tenantID uuid.UUID) ([]catalog.PaperSize, error) {
	var sizes []catalog.PaperSize
	err := r.db.WithContext(ctx).Scopes(tenant.VisibleScope(tenantID)).Order("name ASC").Find(&sizes).Error
	return sizes, err
}

// SaveUnit creates or updates a unit
func (r *GormReferenceDataRepository) SaveUnit(ctx context.Context, unit *catalog.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// SaveGSMType creates or updates a GSM grade
func (r *GormReferenceDataRepository) SaveGSMType(ctx context.Context, gsm *catalog.GSMType) error {
	return r.db.WithContext(ctx).Save(gsm).Error
}

// SavePaperSize creates or updates a paper size
func (r *GormReferenceDataRepository) SavePaperSize(ctx context.Context, size *catalog.PaperSize) error {
	return r.db.WithContext(ctx).Save(size).Error
}

var _ catalog.ReferenceDataRepository = (*GormReferenceDataRepository)(nil)
