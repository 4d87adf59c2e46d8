// Package apperror holds the error kinds shared by the domain packages.
//
// Callers wrap these with fmt.Errorf("...: %w", ...) and match with errors.Is;
// ValidationError is matched with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrConflict               = errors.New("conflict")
	ErrValidation             = errors.New("validation failed")
)

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(code, message string) error {
	return ValidationError{Code: code, Message: message}
}

// ConflictError is a Conflict with a machine code, e.g. EMAIL_TAKEN.
type ConflictError struct {
	Code    string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func Conflict(code, message string) error {
	return ConflictError{Code: code, Message: message}
}
