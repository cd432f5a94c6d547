package domain_test

import (
	"testing"

	"uni-hris/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := domain.ParseRole(" hr ")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleHR, r)

	_, ok = domain.ParseRole("JANITOR")
	assert.False(t, ok)
}

func TestPrincipal_Permissions(t *testing.T) {
	tests := []struct {
		role     domain.Role
		manager  bool
		readAll  bool
		settle   bool
	}{
		{domain.RoleAdmin, true, true, true},
		{domain.RoleHR, true, true, true},
		{domain.RoleFinance, false, true, true},
		{domain.RoleReport, false, true, false},
		{domain.RoleEmployee, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			p := domain.Principal{UserID: "u", EmployeeID: "e", Role: tt.role}
			assert.Equal(t, tt.manager, p.IsPeopleManager())
			assert.Equal(t, tt.readAll, p.CanReadAllPayslips())
			assert.Equal(t, tt.settle, p.CanSettlePayslips())
		})
	}
}

func TestPrincipal_Owns(t *testing.T) {
	assert.True(t, domain.Principal{EmployeeID: "e1"}.Owns("e1"))
	assert.False(t, domain.Principal{EmployeeID: "e1"}.Owns("e2"))
	assert.False(t, domain.Principal{}.Owns(""))

	own := domain.Principal{EmployeeID: "8f14e45f-ceea-4a67-9c3b-5a1d2f0e6b11"}
	assert.True(t, own.Owns("8F14E45F-CEEA-4A67-9C3B-5A1D2F0E6B11"))
	assert.True(t, own.Owns("urn:uuid:8f14e45f-ceea-4a67-9c3b-5a1d2f0e6b11"))
	assert.False(t, own.Owns("8f14e45f-ceea-4a67-9c3b-5a1d2f0e6b12"))
}
