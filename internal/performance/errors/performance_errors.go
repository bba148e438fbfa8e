package performanceerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrInvalidReviewID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid review id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeValidation,
		"period end must not be before period start",
		http.StatusBadRequest,
	)
	ErrReviewNotFound = apperror.New(
		apperror.CodeNotFound,
		"performance review not found",
		http.StatusNotFound,
	)
	ErrDuplicateReview = apperror.New(
		apperror.CodeConflict,
		"a review already exists for this employee and period",
		http.StatusConflict,
	)
	ErrReviewLocked = apperror.New(
		apperror.CodeInvalidState,
		"approved reviews cannot be changed",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"review is not in the expected status",
		http.StatusConflict,
	)
	ErrNotReviewer = apperror.New(
		apperror.CodeForbidden,
		"only the reviewer or hr can change this review",
		http.StatusForbidden,
	)
	ErrNotReviewOwner = apperror.New(
		apperror.CodeForbidden,
		"only the reviewed employee can acknowledge this review",
		http.StatusForbidden,
	)
)
