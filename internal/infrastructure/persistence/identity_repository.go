package persistence

import (
	"context"
	"strings"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, translate(err, "Organization", nil)
	}
	return &org, nil
}

// ShopName returns the organization's display name
func (r *GormOrganizationRepository) ShopName(ctx context.Context, tenantID uuid.UUID) (string, error) {
	org, err := r.FindByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return org.Name, nil
}

// ExistsBySlug reports whether slug is taken
func (r *GormOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.Organization{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Save creates or updates an organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	return translate(r.db.WithContext(ctx).Save(org).Error, "Organization",
		shared.NewDomainError(shared.CodeAlreadyExists, "Organization slug already in use"))
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID within a tenant
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "User", nil)
	}
	return &user, nil
}

// FindByUsername looks a user up across tenants. It runs Unscoped because
// login happens before the tenant is known.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).Unscoped().
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "User", nil)
	}
	return &user, nil
}

// ExistsByUsername reports whether any tenant uses username
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&identity.User{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

// ListByTenant returns the organization's users ordered by username
func (r *GormUserRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]identity.User, error) {
	var users []identity.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "User",
		shared.NewDomainError(shared.CodeAlreadyExists, "Username already in use"))
}

var (
	_ identity.OrganizationRepository = (*GormOrganizationRepository)(nil)
	_ identity.UserRepository         = (*GormUserRepository)(nil)
)
