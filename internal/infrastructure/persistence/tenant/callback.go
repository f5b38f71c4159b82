package tenant

import (
	"reflect"
	"strings"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// TenantCallback provides GORM callback hooks for automatic tenant filtering
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback creates a new tenant callback handler
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = DefaultColumn
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// RegisterCallbacks registers tenant callbacks with GORM
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("tenant:before_create", tc.beforeCreate); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter); err != nil {
		return err
	}
	return cb.Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)
}

// beforeCreate stamps the context tenant on new rows that carry none and
// rejects rows stamped with a different tenant.
func (tc *TenantCallback) beforeCreate(db *gorm.DB) {
	field := tc.tenantField(db)
	if field == nil || db.Statement.Unscoped {
		return
	}
	tenantID, ok := shared.TenantIDFromContext(db.Statement.Context)
	if !ok {
		return
	}

	ctx := db.Statement.Context
	stamp := func(rv reflect.Value) {
		value, zero := field.ValueOf(ctx, rv)
		if zero {
			if err := field.Set(ctx, rv, tenantID); err != nil {
				_ = db.AddError(err)
			}
			return
		}
		if id, ok := value.(uuid.UUID); ok && id != tenantID {
			_ = db.AddError(ErrTenantMismatch)
		}
	}

	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			stamp(reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		stamp(rv)
	}
}

// addTenantFilter adds the context tenant to the WHERE clause of statements on
// tenant-owned tables that do not already filter by tenant.
func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}
	// Raw SQL is executed verbatim and must carry its own tenant predicate
	if db.Statement.SQL.Len() > 0 {
		return
	}
	if tc.tenantField(db) == nil {
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID, ok := shared.TenantIDFromContext(db.Statement.Context)
	if !ok {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// tenantField returns the tenant column of the statement's model when it is a
// plain uuid. Reference data keeps its nullable scope column out of reach.
func (tc *TenantCallback) tenantField(db *gorm.DB) *schema.Field {
	if db.Statement.Schema == nil {
		return nil
	}
	field := db.Statement.Schema.LookUpField(tc.tenantColumn)
	if field == nil || field.FieldType != uuidType {
		return nil
	}
	return field
}

// hasTenantCondition checks if tenant_id condition is already present
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	whereClause, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := whereClause.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range where.Exprs {
		if tc.exprContainsTenant(expr) {
			return true
		}
	}
	return false
}

// exprContainsTenant checks if an expression contains tenant_id column
func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return tc.isTenantColumn(e.Column)
	case clause.IN:
		return tc.isTenantColumn(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

func (tc *TenantCallback) isTenantColumn(column interface{}) bool {
	switch c := column.(type) {
	case clause.Column:
		return c.Name == tc.tenantColumn
	case string:
		return c == tc.tenantColumn || strings.HasSuffix(c, "."+tc.tenantColumn)
	}
	return false
}

// EnableAutoTenantFilter registers the tenant callbacks on db. With required
// set, a statement on a tenant-owned table fails unless the context or the
// statement itself names a tenant.
func EnableAutoTenantFilter(db *gorm.DB, required bool) error {
	return NewTenantCallback(DefaultColumn, required).RegisterCallbacks(db)
}
