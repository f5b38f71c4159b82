package identity

// Role is the single role a user holds within an organization
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
	RoleAccountant Role = "accountant"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Module is a functional area of the API guarded by role
type Module string

const (
	ModuleAccounting Module = "accounting"
	ModuleExpenses   Module = "expenses"
	ModuleReports    Module = "reports"
	ModuleTrade      Module = "trade"
	ModuleInventory  Module = "inventory"
	ModulePOS        Module = "pos"
	ModuleProducts   Module = "products"
	ModuleUsers      Module = "users"
)

// Access is the level granted on a module
type Access int

const (
	AccessNone Access = iota
	AccessView
	AccessFull
)

var rolePermissions = map[Role]map[Module]Access{
	RoleAdmin: nil,
	RoleManager: {
		ModuleAccounting: AccessFull,
		ModuleExpenses:   AccessFull,
		ModuleReports:    AccessFull,
		ModuleTrade:      AccessFull,
		ModuleInventory:  AccessFull,
		ModulePOS:        AccessFull,
		ModuleProducts:   AccessFull,
	},
	RoleAccountant: {
		ModuleAccounting: AccessFull,
		ModuleExpenses:   AccessFull,
		ModuleReports:    AccessFull,
	},
	RoleStaff: {
		ModulePOS:      AccessFull,
		ModuleProducts: AccessView,
	},
}

// AccessTo returns the access level of the role on a module. Admin has full
// access everywhere; unknown roles have none.
func (r Role) AccessTo(m Module) Access {
	perms, ok := rolePermissions[r]
	if !ok {
		return AccessNone
	}
	if r == RoleAdmin {
		return AccessFull
	}
	return perms[m]
}

// Can reports whether the role has at least the requested access on m
func (r Role) Can(m Module, want Access) bool {
	return r.AccessTo(m) >= want
}

// AllModules lists every guarded module in menu order
var AllModules = []Module{
	ModulePOS,
	ModuleProducts,
	ModuleInventory,
	ModuleTrade,
	ModuleExpenses,
	ModuleAccounting,
	ModuleReports,
	ModuleUsers,
}

// String returns the lowercase access name
func (a Access) String() string {
	switch a {
	case AccessFull:
		return "full"
	case AccessView:
		return "view"
	default:
		return "none"
	}
}
