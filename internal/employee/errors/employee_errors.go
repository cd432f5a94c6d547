package employeeerrors

import (
	"net/http"

	"uni-hris/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff number already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeValidation,
		"Base salary must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeValidation,
		"NHIF and NSSF rates must be between 0 and 1",
		http.StatusBadRequest,
	)
	ErrNoEmployeeRecord = apperror.New(
		apperror.CodeNotFound,
		"No employee record is linked to this account",
		http.StatusNotFound,
	)
)
