package shared

import (
	"context"

	"github.com/google/uuid"
)

type tenantContextKey struct{}

// WithTenantID returns a context acting on behalf of tenantID.
// Persistence reads it to scope every statement to that organization.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenantID)
}

// TenantIDFromContext returns the acting tenant, if any
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantContextKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
