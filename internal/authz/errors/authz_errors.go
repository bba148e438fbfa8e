package authzerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have permission to perform this action",
		http.StatusForbidden,
	)
	ErrFieldsNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"one or more fields are not permitted for self-service update",
		http.StatusForbidden,
	)
	ErrActorNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"authenticated employee no longer exists",
		http.StatusUnauthorized,
	)
	ErrActorInactive = apperror.New(
		apperror.CodeForbidden,
		"authenticated employee is not active",
		http.StatusForbidden,
	)
	ErrTargetNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrManagerCycle = apperror.New(
		apperror.CodeBusinessRule,
		"manager assignment would create a reporting cycle",
		http.StatusUnprocessableEntity,
	)
	ErrManagerChainTooDeep = apperror.New(
		apperror.CodeBusinessRule,
		"manager chain exceeds the maximum supported depth",
		http.StatusUnprocessableEntity,
	)
)

// FieldsNotPermitted lists the offending field names in the error details.
func FieldsNotPermitted(fields []string) *apperror.AppError {
	return ErrFieldsNotPermitted.WithDetails(map[string]any{"fields": fields})
}
