package user

import (
	"errors"
	"strings"
)

// Role is the single organizational role a user holds. The role name doubles
// as the authorization policy subject (lowercased).
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

func NewRole(r string) (Role, error) {
	role := Role(r)
	if !role.IsValid() {
		return "", errors.New("invalid role")
	}
	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Slug returns the lowercased policy identifier for the role.
func (r Role) Slug() string {
	return strings.ToLower(string(r))
}

// CanManage reports whether the role carries manager-level capabilities.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}
