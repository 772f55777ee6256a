// Package validation holds the credential rules enforced at signup.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	minUsernameLen = 3
	maxUsernameLen = 30
	maxEmailLen    = 254
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidatePassword enforces the signup password policy: length bounds plus at
// least one uppercase letter, one lowercase letter, one digit, and one
// punctuation or symbol character.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return errors.New("password must contain an uppercase letter")
	case !hasLower:
		return errors.New("password must contain a lowercase letter")
	case !hasDigit:
		return errors.New("password must contain a digit")
	case !hasSpecial:
		return errors.New("password must contain a punctuation or symbol character")
	}
	return nil
}

// ValidateUsername enforces the display name rules: 3 to 30 characters drawn
// from letters, digits, underscore, and hyphen, with a letter or digit at
// each end.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if !usernameRe.MatchString(username) {
		return errors.New("username may only contain letters, digits, underscores, and hyphens")
	}
	if c := username[0]; c == '_' || c == '-' {
		return errors.New("username must start with a letter or digit")
	}
	if c := username[len(username)-1]; c == '_' || c == '-' {
		return errors.New("username must end with a letter or digit")
	}
	return nil
}

// ValidateEmail checks the address shape only; whether it is deliverable is
// the mail server's problem.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLen)
	}
	if !emailRe.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}
