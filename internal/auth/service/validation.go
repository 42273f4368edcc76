package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/auth-service/internal/common/constants"
)

var fieldValidator = validator.New()

func validateEmail(email string) error {
	if email == "" {
		return ErrValidation.WithMessage("email: field required")
	}
	if len(email) > constants.EmailMaxLength {
		return ErrValidation.WithMessage(fmt.Sprintf("email: must be at most %d characters", constants.EmailMaxLength))
	}
	if err := fieldValidator.Var(email, "email"); err != nil {
		return ErrValidation.WithMessage("email: value is not a valid email address").WithCause(err)
	}
	return nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < constants.UsernameMinLength || n > constants.UsernameMaxLength {
		return ErrValidation.WithMessage(fmt.Sprintf(
			"username: length must be between %d and %d characters",
			constants.UsernameMinLength, constants.UsernameMaxLength,
		))
	}
	return nil
}

// validatePassword bounds the password by bytes, since bcrypt ignores
// everything after the 72nd byte.
func validatePassword(password string) error {
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidation.WithMessage(fmt.Sprintf(
			"password: length must be between %d and %d bytes",
			constants.PasswordMinLength, constants.PasswordMaxLength,
		))
	}
	return nil
}

func validateRegisterInput(input RegisterInput) error {
	if err := validateEmail(input.Email); err != nil {
		return err
	}
	if err := validateUsername(input.Username); err != nil {
		return err
	}
	return validatePassword(input.Password)
}

func validateEditProfileInput(input EditProfileInput) error {
	if err := validateUsername(input.Username); err != nil {
		return err
	}
	if input.Password == "" {
		return ErrValidation.WithMessage("password: field required")
	}
	return nil
}
