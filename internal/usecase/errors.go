package usecase

import (
	"errors"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
)

// notFoundOr maps a repository miss to 404 and anything else to 500.
func notFoundOr(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Internal(err)
}
