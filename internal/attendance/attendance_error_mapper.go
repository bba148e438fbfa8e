package attendance

import (
	"errors"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrRecordNotFound
	}
	if apperror.IsUniqueViolation(err) {
		return attendanceerrors.ErrAlreadyClockedIn
	}
	return err
}
