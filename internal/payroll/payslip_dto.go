package payroll

import "github.com/shopspring/decimal"

type GeneratePayslipRequest struct {
	Month                int                 `json:"month" binding:"required"`
	Year                 int                 `json:"year" binding:"required"`
	AdditionalEarnings   decimal.NullDecimal `json:"additional_earnings"`
	AdditionalDeductions decimal.NullDecimal `json:"additional_deductions"`
	LoanDeduction        decimal.NullDecimal `json:"loan_deduction"`
	CooperativeDeduction decimal.NullDecimal `json:"cooperative_deduction"`
}

type MarkPaidRequest struct {
	PayoutReference string `json:"payout_reference" binding:"omitempty,max=128"`
}

type PayoutReferenceRequest struct {
	PayoutReference string `json:"payout_reference" binding:"required,max=128"`
}

// ListFilter narrows List. Zero values mean "any".
type ListFilter struct {
	EmployeeID string
	Year       int
	Month      int
	Paid       *bool
}

type ExportRequest struct {
	Format    string
	ID        string
	IDs       []string
	PayslipID string
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

type PayslipEmployeeResponse struct {
	ID          string `json:"id"`
	StaffNumber string `json:"staff_number"`
	FullName    string `json:"full_name"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`
}

type PayslipResponse struct {
	ID                   string                   `json:"id"`
	EmployeeID           string                   `json:"employee_id"`
	Employee             *PayslipEmployeeResponse `json:"employee,omitempty"`
	Month                int                      `json:"month"`
	Year                 int                      `json:"year"`
	BaseSalary           decimal.Decimal          `json:"base_salary"`
	AdditionalEarnings   decimal.Decimal          `json:"additional_earnings"`
	GrossSalary          decimal.Decimal          `json:"gross_salary"`
	TaxAmount            decimal.Decimal          `json:"tax_amount"`
	NHIFAmount           decimal.Decimal          `json:"nhif_amount"`
	NSSFAmount           decimal.Decimal          `json:"nssf_amount"`
	LoanAmount           decimal.Decimal          `json:"loan_amount"`
	CooperativeAmount    decimal.Decimal          `json:"cooperative_amount"`
	AdditionalDeductions decimal.Decimal          `json:"additional_deductions"`
	Deductions           DeductionBreakdown       `json:"deductions"`
	TotalDeductions      decimal.Decimal          `json:"total_deductions"`
	NetPay               decimal.Decimal          `json:"net_pay"`
	Paid                 bool                     `json:"paid"`
	PaidAt               *string                  `json:"paid_at,omitempty"`
	PayoutReference      *string                  `json:"payout_reference,omitempty"`
	Archived             bool                     `json:"archived"`
	CreatedBy            string                   `json:"created_by"`
	CreatedAt            string                   `json:"created_at"`
}
