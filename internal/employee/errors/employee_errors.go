package employeeerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee code already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrNoFieldsToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"No fields to update",
		http.StatusBadRequest,
	)
	ErrInvalidJoiningDate = apperror.New(
		apperror.CodeValidation,
		"joining_date must use YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeValidation,
		"Manager not found or not active",
		http.StatusBadRequest,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeValidation,
		"Department not found or not active",
		http.StatusBadRequest,
	)
	ErrAdminOnlyField = apperror.New(
		apperror.CodeForbidden,
		"Only admins can change role or department",
		http.StatusForbidden,
	)
	ErrRoleNotAssignable = apperror.New(
		apperror.CodeForbidden,
		"You cannot assign a role above your own",
		http.StatusForbidden,
	)
	ErrEmployeeTerminated = apperror.New(
		apperror.CodeBusinessRule,
		"Employee has been terminated",
		http.StatusUnprocessableEntity,
	)
	ErrCannotTerminateSelf = apperror.New(
		apperror.CodeBusinessRule,
		"You cannot terminate your own account",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeValidation,
		"month must be 1-12 and year must be 2020 or later",
		http.StatusBadRequest,
	)
)
