package enums

// UserRole is the system-wide role attached to an account.
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries admin-panel access.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin reports whether the role is the highest privilege tier.
func (r UserRole) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// CanAccessAdmin gates every /api/admin route.
func (r UserRole) CanAccessAdmin() bool {
	return r.IsAdmin()
}

// CanManageUsers gates user mutation endpoints.
func (r UserRole) CanManageUsers() bool {
	return r.IsSuperAdmin()
}

// CanAssignOrders gates order claim/assignment actions.
func (r UserRole) CanAssignOrders() bool {
	return r.IsAdmin()
}
