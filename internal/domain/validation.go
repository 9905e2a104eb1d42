package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidAccountName     = errors.New("invalid account name")
	ErrInvalidTransactionName = errors.New("invalid transaction name")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrInvalidUsername        = errors.New("invalid username")
	ErrPasswordTooWeak        = errors.New("password does not meet requirements")
	ErrPasswordMismatch       = errors.New("password confirmation does not match")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinUsernameLength    = 3
	MaxUsernameLength    = 32
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// ValidateAccountName validates an account display name.
func ValidateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateTransactionName validates a transaction description.
func ValidateTransactionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidTransactionName)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateUsername validates username length and charset.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidUsername, MinUsernameLength)
	}

	if len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrInvalidUsername, MaxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidUsername)
	}

	return nil
}

// ValidatePassword validates password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}
