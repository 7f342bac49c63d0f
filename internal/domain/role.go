package domain

// Role represents the acting role supplied by the identity layer.
type Role string

const (
	RoleShipper    Role = "SHIPPER"
	RoleCarrier    Role = "CARRIER"
	RoleDispatcher Role = "DISPATCHER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleShipper, RoleCarrier, RoleDispatcher, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// BypassesRoleScope reports whether the role may request any structurally
// legal transition. Dispatchers and admins are scoped only by the structural
// table, not by the per-role request sets.
func (r Role) BypassesRoleScope() bool {
	switch r {
	case RoleDispatcher, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Identity is the per-call identity/role context supplied by the caller.
// The core trusts it; authentication happens upstream.
type Identity struct {
	UserID         string
	OrganizationID string
	Role           Role
}
