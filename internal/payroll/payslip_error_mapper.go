package payroll

import (
	"errors"
	"strings"

	payrollerrors "uni-hris/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayslipNotFound
	}
	if errors.Is(err, ErrPayslipSettled) {
		return payrollerrors.ErrAlreadyPaid
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslip_employee_period":
			return payrollerrors.ErrPayslipExists
		case pgErr.Code == "23503":
			return payrollerrors.ErrEmployeeNotFound
		}
	}

	// sqlite reports the columns instead of the index name
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "uq_payslip_employee_period") ||
		(strings.Contains(msg, "unique constraint failed") && strings.Contains(msg, "payslips.employee_id")) {
		return payrollerrors.ErrPayslipExists
	}

	return err
}
