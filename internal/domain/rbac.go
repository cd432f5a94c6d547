package domain

// EnforceRequest asks whether a role may perform action on resource.
type EnforceRequest struct {
	Role     Role   `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

// Resources and actions guarded by route-level policy.
const (
	ResourcePayslips      = "payslips"
	ResourceEmployees     = "employees"
	ResourceLeaves        = "leaves"
	ResourceNotifications = "notifications"

	ActionRead     = "read"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionGenerate = "generate"
	ActionExport   = "export"
	ActionPay      = "pay"
	ActionApprove  = "approve"
)
