package events

import "time"

const (
	EmployeeCreatedTopic = "hr.employee.lifecycle.v1"
	EmployeeCreatedType  = "employee.created"
)

type EmployeeCreatedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	EmployeeID  string    `json:"employee_id"`
	StaffNumber string    `json:"staff_number"`
	FullName    string    `json:"full_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}
