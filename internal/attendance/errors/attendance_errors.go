package attendanceerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid attendance record ID",
		http.StatusBadRequest,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Already clocked in for this date",
		http.StatusConflict,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeConflict,
		"Already clocked out for this record",
		http.StatusConflict,
	)
	ErrNotRecordOwner = apperror.New(
		apperror.CodeForbidden,
		"Only the employee who clocked in can clock out",
		http.StatusForbidden,
	)
	ErrClockOutBeforeClockIn = apperror.New(
		apperror.CodeValidation,
		"Clock-out must be after clock-in",
		http.StatusBadRequest,
	)
	ErrTimestampSkew = apperror.New(
		apperror.CodeValidation,
		"Timestamp is too far from the server time; use a manual entry for other days",
		http.StatusBadRequest,
	)
	ErrClockInOutsideDate = apperror.New(
		apperror.CodeValidation,
		"Clock-in must fall on the entry date",
		http.StatusBadRequest,
	)
	ErrShiftTooLong = apperror.New(
		apperror.CodeValidation,
		"Clock-out must be within 24 hours of clock-in",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid month or year",
		http.StatusBadRequest,
	)
)
