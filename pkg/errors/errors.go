package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type services hand to the transport layer.
// Reason is an optional machine-readable detail (e.g. USERNAME_TAKEN).
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func WithReason(code Code, message, reason string) error {
	return &AppError{Code: code, Message: message, Reason: reason}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Forbidden(msg string) error {
	return New(CodePermissionDenied, msg)
}

func Internal(cause error) error {
	return Wrap(CodeInternal, "internal server error", cause)
}

// CodeOf returns the code carried by err, or CodeUnknown for foreign errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
