package model

import "fmt"

// Role identifies which side of the support desk a user sits on.
type Role string

const (
	RoleStudent   Role = "student"
	RoleLecturer  Role = "lecturer"
	RoleRegistrar Role = "registrar"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{RoleStudent, RoleLecturer, RoleRegistrar}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleRegistrar:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
