package performance

import (
	"errors"

	performanceerrors "go-hrms/internal/performance/errors"
	"go-hrms/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return performanceerrors.ErrReviewNotFound
	}
	if apperror.IsUniqueViolation(err) {
		return performanceerrors.ErrDuplicateReview
	}
	return err
}
