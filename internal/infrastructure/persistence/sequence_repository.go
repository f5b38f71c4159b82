package persistence

import (
	"context"
	"time"

	"github.com/dokan/papershop/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentSequence is the per-tenant counter behind one number prefix
type documentSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix    string    `gorm:"type:varchar(30);primaryKey"`
	LastValue int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (documentSequence) TableName() string {
	return "document_sequences"
}

// GormSequenceRepository implements trade.SequenceRepository with an upserted
// counter row. The upsert takes the row lock, so concurrent transactions on the
// same prefix are serialized until commit.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next advances the counter for (tenant, prefix) and returns the new value
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, prefix string, seed int) (int, error) {
	if seed < 0 {
		seed = 0
	}
	now := time.Now().UTC()
	db := r.db.WithContext(ctx)

	row := documentSequence{TenantID: tenantID, Prefix: prefix, LastValue: seed + 1, UpdatedAt: now}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_value": gorm.Expr("document_sequences.last_value + 1"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}

	var value int
	err = db.Model(&documentSequence{}).
		Where("tenant_id = ? AND prefix = ?", tenantID, prefix).
		Select("last_value").
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

var _ trade.SequenceRepository = (*GormSequenceRepository)(nil)
