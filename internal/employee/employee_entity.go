package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID          uuid.UUID       `gorm:"type:varchar(36);primaryKey"`
	UserID      *uuid.UUID      `gorm:"type:varchar(36);index"`
	StaffNumber string          `gorm:"type:varchar(32);not null"`
	FullName    string          `gorm:"type:varchar(255);not null"`
	Email       string          `gorm:"type:varchar(255);not null"`
	Department  string          `gorm:"type:varchar(120)"`
	Position    string          `gorm:"type:varchar(120)"`
	BaseSalary  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NHIFRate    decimal.Decimal `gorm:"column:nhif_rate;type:numeric(6,4);not null"`
	NSSFRate    decimal.Decimal `gorm:"column:nssf_rate;type:numeric(6,4);not null"`
	BankName    string          `gorm:"type:varchar(120)"`
	BankAccount string          `gorm:"type:varchar(64)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
