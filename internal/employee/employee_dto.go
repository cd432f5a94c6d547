package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	StaffNumber string          `json:"staff_number" binding:"omitempty,max=32"`
	FullName    string          `json:"full_name" binding:"required,max=255"`
	Email       string          `json:"email" binding:"required,email"`
	Department  string          `json:"department" binding:"max=120"`
	Position    string          `json:"position" binding:"max=120"`
	BaseSalary  decimal.Decimal `json:"base_salary" binding:"gte=0"`
	NHIFRate    decimal.Decimal `json:"nhif_rate" binding:"gte=0,lte=1"`
	NSSFRate    decimal.Decimal `json:"nssf_rate" binding:"gte=0,lte=1"`
	BankName    string          `json:"bank_name" binding:"max=120"`
	BankAccount string          `json:"bank_account" binding:"max=64"`
}

type UpdateEmployeeRequest struct {
	FullName    string          `json:"full_name" binding:"required,max=255"`
	Email       string          `json:"email" binding:"required,email"`
	Department  string          `json:"department" binding:"max=120"`
	Position    string          `json:"position" binding:"max=120"`
	BaseSalary  decimal.Decimal `json:"base_salary" binding:"gte=0"`
	NHIFRate    decimal.Decimal `json:"nhif_rate" binding:"gte=0,lte=1"`
	NSSFRate    decimal.Decimal `json:"nssf_rate" binding:"gte=0,lte=1"`
	BankName    string          `json:"bank_name" binding:"max=120"`
	BankAccount string          `json:"bank_account" binding:"max=64"`
}

type EmployeeResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id,omitempty"`
	StaffNumber string          `json:"staff_number"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	Department  string          `json:"department,omitempty"`
	Position    string          `json:"position,omitempty"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	NHIFRate    decimal.Decimal `json:"nhif_rate"`
	NSSFRate    decimal.Decimal `json:"nssf_rate"`
	BankName    string          `json:"bank_name,omitempty"`
	BankAccount string          `json:"bank_account,omitempty"`
}

type EmployeeOption struct {
	ID          string `json:"id"`
	StaffNumber string `json:"staff_number"`
	FullName    string `json:"full_name"`
}
