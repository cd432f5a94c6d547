package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID         uuid.UUID      `gorm:"type:varchar(36);primaryKey"`
	EmployeeID uuid.UUID      `gorm:"type:varchar(36);not null;index:idx_leaves_employee"`
	Employee   *LeaveEmployee `gorm:"foreignKey:EmployeeID;references:ID"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedBy       string     `gorm:"type:varchar(36);not null"`
	DecidedBy       *string    `gorm:"type:varchar(36)"`
	DecidedAt       *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type LeaveEmployee struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	StaffNumber string
	FullName    string
}

func (LeaveEmployee) TableName() string {
	return "employees"
}
