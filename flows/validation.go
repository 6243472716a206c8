package flows

import (
	"regexp"
	"strings"

	"github.com/videoflix/videoflix-client/session"
)

// MinPasswordLength is the client-side minimum for any password field.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks the (trimmed) address against the registration email
// pattern.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &session.ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// ValidatePassword enforces the minimum length on the trimmed password.
func ValidatePassword(password string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return &session.ValidationError{Field: "password", Message: "Password must be at least 8 characters long"}
	}
	return nil
}
