package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeValidation         ErrorCode = "VALIDATION"
	ErrCodeMissingField       ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidID          ErrorCode = "INVALID_ID"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeInvalidStatus      ErrorCode = "INVALID_STATUS"
	ErrCodePastDueDate        ErrorCode = "PAST_DUE_DATE"
	ErrCodeInvalidRange       ErrorCode = "INVALID_RANGE"
	ErrCodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeConfig             ErrorCode = "CONFIG"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf builds a domain error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "task not found or not authorized")
	ErrDuplicateEmail     = NewError(ErrCodeDuplicateEmail, "email already exists")
	ErrInvalidCredentials = NewError(ErrCodeInvalidCredentials, "invalid credentials")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload     = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ValidationErrors collects per-field messages for a single request and carries
// the VALIDATION code so transport maps it to a 400.
type ValidationErrors struct {
	Fields []string
}

func (e *ValidationErrors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Fields, "; ")
}

// Add appends a field-level message.
func (e *ValidationErrors) Add(message string) {
	e.Fields = append(e.Fields, message)
}

// Empty reports whether any message was collected.
func (e *ValidationErrors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}
