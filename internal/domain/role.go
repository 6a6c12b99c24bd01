package domain

import "strings"

type RoleName string

const (
	RoleAdmin    RoleName = "Admin"
	RoleCustomer RoleName = "Customer"
	RoleEngineer RoleName = "Engineer"
)

// homePrecedence is the order used when a multi-role identity lands on "/".
var homePrecedence = []RoleName{RoleAdmin, RoleCustomer, RoleEngineer}

func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleEngineer:
		return true
	default:
		return false
	}
}

// LandingRoute is the dashboard route of the role, "/admin" for Admin.
func (r RoleName) LandingRoute() string {
	if !r.Valid() {
		return ""
	}
	return "/" + strings.ToLower(string(r))
}

// ParseRole matches the backend role name exactly.
func ParseRole(raw string) (RoleName, bool) {
	role := RoleName(raw)
	return role, role.Valid()
}

type RoleSet []RoleName

func NewRoleSet(roles ...RoleName) RoleSet {
	set := make(RoleSet, 0, len(roles))
	seen := make(map[RoleName]struct{}, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		set = append(set, role)
	}
	return set
}

func (s RoleSet) Has(role RoleName) bool {
	for _, candidate := range s {
		if candidate == role {
			return true
		}
	}
	return false
}

func (s RoleSet) Intersects(other RoleSet) bool {
	for _, role := range s {
		if other.Has(role) {
			return true
		}
	}
	return false
}

// Primary returns the first recognised role in backend order.
func (s RoleSet) Primary() (RoleName, bool) {
	for _, role := range s {
		if role.Valid() {
			return role, true
		}
	}
	return "", false
}

// Home returns the role whose dashboard "/" resolves to.
func (s RoleSet) Home() (RoleName, bool) {
	for _, role := range homePrecedence {
		if s.Has(role) {
			return role, true
		}
	}
	return "", false
}

func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, role := range s {
		out = append(out, string(role))
	}
	return out
}
