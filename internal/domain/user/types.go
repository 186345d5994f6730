package user

type Role string

const (
	RoleStudent Role = "student"
	RoleTech    Role = "tech"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTech, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role may act on other users' reservations.
func (r Role) IsStaff() bool {
	return r == RoleTech || r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
