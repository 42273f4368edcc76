package domain

import (
	"strings"
	"time"
)

type ID string

type User struct {
	ID           ID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail is the single place where the email comparison policy lives:
// addresses are trimmed and compared case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
