package events

import "time"

const (
	PayslipGeneratedTopic = "hr.payroll.payslip.generated.v1"
	PayslipGeneratedType  = "payslip.generated"
)

// PayslipGeneratedEvent asks the archive consumer to render and store the
// payslip PDF and notify the employee.
type PayslipGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	PayslipID   string    `json:"payslip_id"`
	EmployeeID  string    `json:"employee_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	GeneratedBy string    `json:"generated_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
