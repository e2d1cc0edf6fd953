package model

// Role is the access level attached to a user and to issued credentials.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleStaff}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleStaff:
		return true
	default:
		return false
	}
}

// ParseRole narrows an untrusted string to a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
