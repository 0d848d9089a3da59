package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies the failures the sync pipeline can hit
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeStoreQuery ErrorType = "store_query"
	ErrorTypeStoreWrite ErrorType = "store_write"
	ErrorTypeProvider   ErrorType = "provider"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a typed API error with the HTTP status that produced it.
// Code is zero for errors that never reached the wire.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error with a formatted message
func New(t ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// TypeOf returns the error type of err, or ErrorTypeUnknown for plain errors
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsConfig reports whether err is a configuration error. Configuration errors
// are the only kind that abort a run before any network call.
func IsConfig(err error) bool {
	return TypeOf(err) == ErrorTypeConfig
}
