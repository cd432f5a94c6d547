package domain

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleFinance  Role = "FINANCE"
	RoleEmployee Role = "EMPLOYEE"
	RoleReport   Role = "REPORT"
)

var roles = []Role{RoleAdmin, RoleHR, RoleFinance, RoleEmployee, RoleReport}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParseRole accepts any casing and returns false for unknown roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Principal is the authenticated caller as carried by the access token.
// EmployeeID is empty for accounts without an employee record.
type Principal struct {
	UserID     string
	EmployeeID string
	Role       Role
}

func (p Principal) HasRole(rs ...Role) bool {
	for _, r := range rs {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsPeopleManager reports whether the caller may act on any employee's records.
func (p Principal) IsPeopleManager() bool {
	return p.HasRole(RoleAdmin, RoleHR)
}

// CanReadAllPayslips reports whether the caller may read any employee's payslips.
func (p Principal) CanReadAllPayslips() bool {
	return p.HasRole(RoleAdmin, RoleHR, RoleFinance, RoleReport)
}

// CanSettlePayslips reports whether the caller may mark payslips paid.
func (p Principal) CanSettlePayslips() bool {
	return p.HasRole(RoleAdmin, RoleHR, RoleFinance)
}

// Owns reports whether employeeID is the caller's own employee record.
// Ids compare in canonical uuid form, so letter case does not matter.
func (p Principal) Owns(employeeID string) bool {
	return p.EmployeeID != "" && canonicalID(p.EmployeeID) == canonicalID(employeeID)
}

func canonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return strings.ToLower(id)
}
