package shared

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

type scopeKind uint8

const (
	scopeGlobal scopeKind = iota
	scopeTenant
)

// Scope is the ownership of a reference-data row: either platform-wide
// (Global) or owned by a single organization (Scoped). It is stored in a
// nullable tenant_id column where NULL means Global.
type Scope struct {
	kind     scopeKind
	tenantID uuid.UUID
}

// GlobalScope returns the platform-wide scope
func GlobalScope() Scope {
	return Scope{kind: scopeGlobal}
}

// ScopedTo returns a scope owned by tenantID. A nil tenant ID yields Global.
func ScopedTo(tenantID uuid.UUID) Scope {
	if tenantID == uuid.Nil {
		return GlobalScope()
	}
	return Scope{kind: scopeTenant, tenantID: tenantID}
}

// IsGlobal reports whether the scope is platform-wide
func (s Scope) IsGlobal() bool {
	return s.kind == scopeGlobal
}

// TenantID returns the owning tenant and true for a scoped value
func (s Scope) TenantID() (uuid.UUID, bool) {
	if s.kind != scopeTenant {
		return uuid.Nil, false
	}
	return s.tenantID, true
}

// VisibleTo reports whether a row with this scope can be read by tenantID
func (s Scope) VisibleTo(tenantID uuid.UUID) bool {
	return s.kind == scopeGlobal || s.tenantID == tenantID
}

// String renders the scope for logs
func (s Scope) String() string {
	if s.kind == scopeGlobal {
		return "global"
	}
	return "tenant:" + s.tenantID.String()
}

// Value implements driver.Valuer
func (s Scope) Value() (driver.Value, error) {
	if s.kind == scopeGlobal {
		return nil, nil
	}
	return s.tenantID.String(), nil
}

// Scan implements sql.Scanner
func (s *Scope) Scan(value interface{}) error {
	if value == nil {
		*s = GlobalScope()
		return nil
	}
	var id uuid.UUID
	if err := id.Scan(value); err != nil {
		return fmt.Errorf("scan scope: %w", err)
	}
	*s = ScopedTo(id)
	return nil
}

// GormDataType tells GORM the column type for migrations
func (Scope) GormDataType() string {
	return "uuid"
}
