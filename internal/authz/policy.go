package authz

import (
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// Capability names one permission checked at the route level.
type Capability string

const (
	CatalogRead     Capability = "catalog:read"
	CatalogWrite    Capability = "catalog:write"
	CustomersRead   Capability = "customers:read"
	CustomersWrite  Capability = "customers:write"
	CustomersDelete Capability = "customers:delete"
	CompanyRead     Capability = "company:read"
	CompanyWrite    Capability = "company:write"
	OrdersRead      Capability = "orders:read"
	OrdersWrite     Capability = "orders:write"
	ExpensesRead    Capability = "expenses:read"
	ExpensesWrite   Capability = "expenses:write"
	PurchasesRead   Capability = "purchases:read"
	PurchasesWrite  Capability = "purchases:write"
	ReportsRead     Capability = "reports:read"
	UsersManage     Capability = "users:manage"
)

var (
	everyone    = []enums.StaffRole{enums.StaffRoleManager, enums.StaffRoleSalesman}
	managerOnly = []enums.StaffRole{enums.StaffRoleManager}
)

// DefaultPolicy maps capabilities to the staff roles holding them. A capability
// with no roles is reserved for superusers.
func DefaultPolicy() Policy {
	return Policy{
		CatalogRead:     everyone,
		CatalogWrite:    managerOnly,
		CustomersRead:   everyone,
		CustomersWrite:  everyone,
		CustomersDelete: managerOnly,
		CompanyRead:     everyone,
		CompanyWrite:    managerOnly,
		OrdersRead:      everyone,
		OrdersWrite:     everyone,
		ExpensesRead:    everyone,
		ExpensesWrite:   everyone,
		PurchasesRead:   everyone,
		PurchasesWrite:  everyone,
		ReportsRead:     everyone,
		UsersManage:     nil,
	}
}

type Policy map[Capability][]enums.StaffRole
