package domain

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

var roleLevels = map[Role]int{
	RoleSuperAdmin: 5,
	RoleAdmin:      4,
	RoleHR:         3,
	RoleManager:    2,
	RoleEmployee:   1,
}

// Roles lists every role from the most to the least privileged.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleHR, RoleManager, RoleEmployee}
}

// RoleLevel returns 0 for unknown roles.
func RoleLevel(r Role) int {
	return roleLevels[r]
}

func AtLeast(r Role, threshold Role) bool {
	level := RoleLevel(r)
	return level > 0 && level >= RoleLevel(threshold)
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleLevels[r]
	return r, ok
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated employee performing a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(employeeID, role string) (Actor, bool) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return Actor{}, false
	}
	r, ok := ParseRole(role)
	if !ok {
		return Actor{}, false
	}
	return Actor{ID: id, Role: r}, true
}
