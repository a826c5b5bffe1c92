// Package rbac is the single capability-check abstraction for the service.
// Handlers never compare role strings; they ask for a capability.
package rbac

// Role enumerates the account roles.
type Role string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "user"
	// RoleAdmin unlocks inventory mutation and supplier/user administration.
	RoleAdmin Role = "admin"
)

// Capability names a guarded action.
type Capability string

const (
	CapCatalogRead    Capability = "catalog:read"
	CapCatalogWrite   Capability = "catalog:write"
	CapSuppliersRead  Capability = "suppliers:read"
	CapSuppliersWrite Capability = "suppliers:write"
	CapOrdersRead     Capability = "orders:read"
	CapOrdersWrite    Capability = "orders:write"
	CapReportsRead    Capability = "reports:read"
	CapUsersAdmin     Capability = "users:admin"
)

var grants = map[Role]map[Capability]struct{}{
	RoleUser: capSet(
		CapCatalogRead,
		CapSuppliersRead,
		CapOrdersRead,
		CapOrdersWrite,
		CapReportsRead,
	),
	RoleAdmin: capSet(
		CapCatalogRead,
		CapCatalogWrite,
		CapSuppliersRead,
		CapSuppliersWrite,
		CapOrdersRead,
		CapOrdersWrite,
		CapReportsRead,
		CapUsersAdmin,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Can reports whether the role holds the capability. Unknown roles hold nothing.
func Can(role Role, cap Capability) bool {
	set, ok := grants[role]
	if !ok {
		return false
	}
	_, ok = set[cap]
	return ok
}

// ValidRole reports whether the role is one of the known roles.
func ValidRole(role Role) bool {
	_, ok := grants[role]
	return ok
}
