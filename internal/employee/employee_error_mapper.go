package employee

import (
	"errors"
	"strings"

	employeeerrors "uni-hris/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_employees_staff_number":
			return employeeerrors.ErrStaffNumberAlreadyExists
		case "uq_employees_email":
			return employeeerrors.ErrEmployeeAlreadyExists
		}
	}

	// sqlite reports the columns instead of the index name
	errMsg := strings.ToLower(err.Error())
	isUnique := strings.Contains(errMsg, "duplicate key value") || strings.Contains(errMsg, "unique constraint failed")
	switch {
	case isUnique && (strings.Contains(errMsg, "uq_employees_staff_number") || strings.Contains(errMsg, "employees.staff_number")):
		return employeeerrors.ErrStaffNumberAlreadyExists
	case isUnique && (strings.Contains(errMsg, "uq_employees_email") || strings.Contains(errMsg, "employees.email")):
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	return err
}
