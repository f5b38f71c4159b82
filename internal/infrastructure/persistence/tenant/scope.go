// Package tenant keeps every statement on a tenant-owned table inside one
// organization.
//
// The acting tenant travels in the context (shared.WithTenantID). Registered
// callbacks append WHERE tenant_id = ? to reads, updates and deletes that do
// not already filter by tenant, and stamp or verify tenant_id on inserts.
//
// Usage:
//
//	_ = tenant.EnableAutoTenantFilter(db, true)
//	ctx = shared.WithTenantID(ctx, orgID)
//	db.WithContext(ctx).Find(&products) // WHERE products.tenant_id = 'xxx'
//
// Reference data (units, GSM grades, paper sizes) uses a nullable scope column
// and is read with an explicit "tenant_id IS NULL OR tenant_id = ?" predicate.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultColumn is the tenant column shared by every tenant-owned table
const DefaultColumn = "tenant_id"

// ErrTenantIDRequired is returned when tenant_id is required but not found
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrTenantMismatch is returned when a row is written for a tenant other than
// the one acting in the context
var ErrTenantMismatch = errors.New("row tenant does not match the context tenant")

// TenantScope applies tenant filtering to GORM queries
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(DefaultColumn+" = ?", tenantID)
	}
}

// VisibleScope selects rows owned by tenantID plus the global rows
func VisibleScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+DefaultColumn+" IS NULL OR "+DefaultColumn+" = ?)", tenantID)
	}
}
