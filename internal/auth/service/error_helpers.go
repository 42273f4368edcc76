package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
)

// storageError leaves domain errors untouched and reports anything else
// coming out of the store as ErrStorage.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrStorage.WithCause(err)
}

func newInternalError(message string, cause error) commonerrors.DomainError {
	err := commonerrors.ErrInternalError.WithMessage(message)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

func isClientError(err error) bool {
	de, ok := commonerrors.AsDomainError(err)
	return ok && de.HTTPStatus() < http.StatusInternalServerError
}
