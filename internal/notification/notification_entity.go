package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindWelcome         = "WELCOME"
	KindPayslipArchived = "PAYSLIP_ARCHIVED"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:varchar(36);not null;index"`
	Kind       string    `gorm:"type:varchar(40);not null"`
	Title      string    `gorm:"type:varchar(255);not null"`
	Body       string    `gorm:"type:text"`
	RefID      *string   `gorm:"type:varchar(36)"`
	ReadAt     *time.Time
	CreatedAt  time.Time
}
