package notification

// NotifyInput is an in-process request to notify one employee. RefID makes
// delivery idempotent per (employee, kind, ref).
type NotifyInput struct {
	EmployeeID string
	Kind       string
	Title      string
	Body       string
	RefID      string
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Body      string  `json:"body,omitempty"`
	RefID     *string `json:"ref_id,omitempty"`
	Read      bool    `json:"read"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}
