package notificationerrors

import (
	"net/http"

	"uni-hris/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)
	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid notification ID",
		http.StatusBadRequest,
	)
	ErrNoEmployeeRecord = apperror.New(
		apperror.CodeForbidden,
		"Account is not linked to an employee record",
		http.StatusForbidden,
	)
	ErrInvalidNotification = apperror.New(
		apperror.CodeValidation,
		"Notification requires an employee, kind and title",
		http.StatusBadRequest,
	)
)
