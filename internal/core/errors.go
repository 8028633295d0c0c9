package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the transport layer.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindUnexpected ErrorKind = "unexpected"
)

// Sentinels returned (wrapped) by repositories and ledgers.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate key")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Error is a classified domain error carrying a user-facing message.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

func Validationf(field, format string, args ...any) *Error {
	return Validation(field, fmt.Sprintf(format, args...))
}

// NotFound reports a missing or foreign-owned entity without telling the two apart.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found", Err: ErrNotFound}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// KindOf classifies any error; unknown errors are unexpected.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInsufficientFunds):
		return KindConflict
	}
	return KindUnexpected
}

// MessageOf returns the message safe to show to callers.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	switch KindOf(err) {
	case KindNotFound:
		return "resource not found"
	case KindConflict:
		return "resource already exists"
	}
	return "unexpected error"
}
