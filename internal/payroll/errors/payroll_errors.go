package payrollerrors

import (
	"net/http"

	"uni-hris/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeValidation,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeValidation,
		"year must be between 2000 and 2100",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeValidation,
		"amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeValidation,
		"rates must be between 0 and 1",
		http.StatusBadRequest,
	)
	ErrItemizationExceedsTotal = apperror.New(
		apperror.CodeValidation,
		"loan and cooperative deductions exceed additional deductions",
		http.StatusBadRequest,
	)
	ErrInvalidFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip filter",
		http.StatusBadRequest,
	)
	ErrPayoutReferenceRequired = apperror.New(
		apperror.CodeValidation,
		"payout reference is required",
		http.StatusBadRequest,
	)
	ErrUnsupportedFormat = apperror.New(
		apperror.CodeUnsupportedFormat,
		"unsupported export format, expected pdf, doc or excel",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrNoPayslips = apperror.New(
		apperror.CodeNotFound,
		"no payslips matched the export request",
		http.StatusNotFound,
	)
	ErrPayslipNotArchived = apperror.New(
		apperror.CodeNotFound,
		"payslip file is not archived yet",
		http.StatusNotFound,
	)
	ErrPayslipExists = apperror.New(
		apperror.CodeConflict,
		"payslip already exists for this period",
		http.StatusConflict,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payslip is already marked paid",
		http.StatusConflict,
	)
	ErrForbidden = apperror.ErrForbidden
	ErrRenderFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to render payslip document",
		http.StatusInternalServerError,
	)
)
