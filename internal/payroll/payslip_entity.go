package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payslip struct {
	ID         uuid.UUID        `gorm:"type:varchar(36);primaryKey"`
	EmployeeID uuid.UUID        `gorm:"type:varchar(36);not null;index"`
	Employee   *PayslipEmployee `gorm:"foreignKey:EmployeeID;references:ID"`

	Month int `gorm:"type:smallint;not null"`
	Year  int `gorm:"type:smallint;not null"`

	BaseSalary           decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	GrossSalary          decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	AdditionalEarnings   decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	TaxAmount            decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	NHIFAmount           decimal.Decimal     `gorm:"column:nhif_amount;type:numeric(14,2);not null"`
	NSSFAmount           decimal.Decimal     `gorm:"column:nssf_amount;type:numeric(14,2);not null"`
	LoanAmount           decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	CooperativeAmount    decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	AdditionalDeductions decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	TotalDeductions      decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Deductions           *string             `gorm:"type:text"`
	NetPay               decimal.Decimal     `gorm:"type:numeric(14,2);not null"`

	Paid            bool `gorm:"not null;default:false"`
	PaidAt          *time.Time
	PayoutReference *string `gorm:"type:varchar(128)"`
	FileURL         *string `gorm:"column:file_url;type:text"`
	CreatedBy       string  `gorm:"type:varchar(36);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// PayslipEmployee is the slice of the employees table a payslip needs for display.
type PayslipEmployee struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	StaffNumber string
	FullName    string
	Email       string
	Department  string
	Position    string
	BankName    string
	BankAccount string
}

func (PayslipEmployee) TableName() string {
	return "employees"
}
