package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures so callers can decide what to show the user.
type ErrorCode string

const (
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeInvalid  ErrorCode = "INVALID"
	ErrCodeStorage  ErrorCode = "STORAGE"
)

// Error is a classified application error.
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

// Is matches another *Error with the same code and message, so sentinel
// values work with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a classified error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError classifies an existing error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrInvalidData    = NewError(ErrCodeInvalid, "invalid data")
	ErrTaskNotFound   = NewError(ErrCodeNotFound, "task not found")
	ErrDomainNotFound = NewError(ErrCodeNotFound, "domain not found")
)

// IsError reports whether err carries the given code.
func IsError(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
