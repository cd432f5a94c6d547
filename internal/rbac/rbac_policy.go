package rbac

import "uni-hris/internal/domain"

type Permission struct {
	Role     domain.Role
	Resource string
	Action   string
}

// DefaultPolicy is the route-level policy. Record ownership (an EMPLOYEE
// touching only their own payslips and leaves) is checked by the services.
func DefaultPolicy() []Permission {
	p := []Permission{
		{domain.RoleAdmin, "*", "*"},
	}

	grant := func(role domain.Role, resource string, actions ...string) {
		for _, a := range actions {
			p = append(p, Permission{role, resource, a})
		}
	}

	grant(domain.RoleHR, domain.ResourcePayslips,
		domain.ActionGenerate, domain.ActionRead, domain.ActionExport, domain.ActionPay)
	grant(domain.RoleHR, domain.ResourceEmployees,
		domain.ActionRead, domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete)
	grant(domain.RoleHR, domain.ResourceLeaves,
		domain.ActionRead, domain.ActionCreate, domain.ActionUpdate, domain.ActionApprove)
	grant(domain.RoleHR, domain.ResourceNotifications, domain.ActionRead, domain.ActionUpdate)

	grant(domain.RoleFinance, domain.ResourcePayslips,
		domain.ActionGenerate, domain.ActionRead, domain.ActionExport, domain.ActionPay)
	grant(domain.RoleFinance, domain.ResourceEmployees, domain.ActionRead)
	grant(domain.RoleFinance, domain.ResourceLeaves, domain.ActionRead, domain.ActionCreate, domain.ActionUpdate)
	grant(domain.RoleFinance, domain.ResourceNotifications, domain.ActionRead, domain.ActionUpdate)

	grant(domain.RoleReport, domain.ResourcePayslips,
		domain.ActionGenerate, domain.ActionRead, domain.ActionExport)
	grant(domain.RoleReport, domain.ResourceEmployees, domain.ActionRead)
	grant(domain.RoleReport, domain.ResourceLeaves, domain.ActionRead, domain.ActionCreate, domain.ActionUpdate)
	grant(domain.RoleReport, domain.ResourceNotifications, domain.ActionRead, domain.ActionUpdate)

	grant(domain.RoleEmployee, domain.ResourcePayslips,
		domain.ActionGenerate, domain.ActionRead, domain.ActionExport)
	grant(domain.RoleEmployee, domain.ResourceLeaves, domain.ActionRead, domain.ActionCreate, domain.ActionUpdate)
	grant(domain.RoleEmployee, domain.ResourceNotifications, domain.ActionRead, domain.ActionUpdate)

	return p
}
