package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Error is a validation failure with a stable machine-readable code
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &Error{Code: "MISSING_EMAIL", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &Error{Code: "INVALID_EMAIL", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return &Error{Code: "MISSING_PASSWORD", Message: "password is required"}
	}
	if len(password) < 8 {
		return &Error{Code: "PASSWORD_TOO_SHORT", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &Error{Code: "MISSING_NAME", Message: "name is required"}
	}
	if len(name) < 2 {
		return &Error{Code: "NAME_TOO_SHORT", Message: "name must be at least 2 characters"}
	}
	return nil
}
