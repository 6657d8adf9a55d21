package common

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation    Code = "validation_error"
	CodeInvalidStatus Code = "invalid_status"
	CodeIneligible    Code = "ineligible"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeUnauthorized  Code = "unauthorized"
	CodeForbidden     Code = "forbidden"
	CodeRateLimited   Code = "rate_limited"
	CodeUnavailable   Code = "storage_unavailable"
	CodeInternal      Code = "internal_error"
)

// Error is the single error type crossing service boundaries. Fields carries
// per-field validation messages, Details any structured diagnostic payload.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Details any
	Err     error
}

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the operation as is.
func (e *Error) Retryable() bool {
	return e.Code == CodeUnavailable
}

func Is(err error, code Code) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Code == code
	}
	return false
}

func CodeOf(err error) Code {
	var target *Error
	if errors.As(err, &target) {
		return target.Code
	}
	return CodeInternal
}
