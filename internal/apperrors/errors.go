// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable error class used to pick the HTTP status.
type Code string

const (
	CodeUnauthorized Code = "unauthorized"
	CodeInvalid      Code = "invalid"
	CodeNotFound     Code = "not_found"
	CodeUpstream     Code = "upstream"
	CodeInternal     Code = "internal"
)

// AuthReason tells apart the ways a credential can fail.
type AuthReason string

const (
	AuthMissing AuthReason = "missing"
	AuthInvalid AuthReason = "invalid"
	AuthExpired AuthReason = "expired"
)

// FieldError describes one violated field of a wine payload.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// AppError carries a code, a message safe for clients, and the wrapped cause.
type AppError struct {
	Code    Code
	Message string
	Err     error

	// Reason is set for CodeUnauthorized.
	Reason AuthReason
	// Fields is set for CodeInvalid.
	Fields []FieldError
	// Status is the upstream HTTP status for CodeUpstream, 0 when the call
	// never got a response.
	Status int
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Fields) > 0 {
		msg += " (" + e.Details() + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Err }

// Details joins field errors as "field: message; field: message".
func (e *AppError) Details() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func Unauthorized(reason AuthReason, err error) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: "authentication failed", Reason: reason, Err: err}
}

func Validation(fields []FieldError) *AppError {
	return &AppError{Code: CodeInvalid, Message: "invalid wine data", Fields: fields}
}

// InvalidRequest is a validation failure that is not tied to a wine field,
// such as a body that is not a JSON object.
func InvalidRequest(message string, err error) *AppError {
	return &AppError{Code: CodeInvalid, Message: message, Err: err}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func Upstream(status int, err error) *AppError {
	return &AppError{Code: CodeUpstream, Message: "recognition service failed", Status: status, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// As returns the AppError inside err, if any.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsCode checks if an error has the provided code (through unwrapping).
func IsCode(err error, code Code) bool {
	if ae, ok := As(err); ok {
		return ae.Code == code
	}
	return false
}
