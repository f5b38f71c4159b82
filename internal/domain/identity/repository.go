package identity

import (
	"context"

	"github.com/google/uuid"
)

// OrganizationRepository persists organizations
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, org *Organization) error
}

// UserRepository persists users. Lookups by username cross tenants because
// login happens before a tenant is known.
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]User, error)
	Save(ctx context.Context, user *User) error
}
