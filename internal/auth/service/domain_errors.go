package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
)

var (
	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"User already registered",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryAuth,
		http.StatusBadRequest,
		"Invalid credentials",
	)

	ErrIncorrectPassword = commonerrors.NewDomainError(
		"INCORRECT_PASSWORD",
		commonerrors.CategoryAuth,
		http.StatusBadRequest,
		"Password is incorrect",
	)

	ErrUnknownSubject = commonerrors.NewDomainError(
		"UNKNOWN_SUBJECT",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Unauthorized",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"validation failed",
	)

	ErrInvalidToken = commonerrors.ErrInvalidToken
)
