// Package validate contains the local shape checks applied to user input
// before anything reaches the network. Checks are pure functions returning
// field errors; no serialization library is involved.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
)

// emailPattern is a deliberately loose address shape check; the service is
// the authority on whether an address is acceptable.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError names one input field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates the field errors of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(msgs, "; ")
}

// LoginInput is the credentials pair submitted to login.
type LoginInput struct {
	Email    string
	Password string
}

// Validate returns nil when the input passes all shape checks.
func (in LoginInput) Validate() error {
	var fields []FieldError
	fields = append(fields, checkEmail(in.Email)...)
	fields = append(fields, checkPassword(in.Password)...)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// RegisterInput is the profile submitted to register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Validate returns nil when the input passes all shape checks.
func (in RegisterInput) Validate() error {
	var fields []FieldError
	if len(strings.TrimSpace(in.Name)) < minNameLen {
		fields = append(fields, FieldError{Field: "name", Message: fmt.Sprintf("must be at least %d characters", minNameLen)})
	}
	fields = append(fields, checkEmail(in.Email)...)
	fields = append(fields, checkPassword(in.Password)...)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func checkEmail(email string) []FieldError {
	if !emailPattern.MatchString(email) {
		return []FieldError{{Field: "email", Message: "invalid email address"}}
	}
	return nil
}

func checkPassword(password string) []FieldError {
	if len(password) < minPasswordLen {
		return []FieldError{{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLen)}}
	}
	return nil
}
