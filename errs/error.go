package errs

import (
	"errors"
	"fmt"
)

// Application error codes. They map the store- and service-level
// failure modes onto user-visible outcomes; the http translation lives
// in ReturnError.
const (
	ECONFLICT     = "conflict"     // uniqueness violation (duplicate key)
	EFORBIDDEN    = "forbidden"    // viewer lacks ownership
	EINTERNAL     = "internal"     // internal error
	EINVALID      = "invalid"      // validation failed
	ENOTFOUND     = "not_found"    // entity, page or route not found
	EUNAUTHORIZED = "unauthorized" // no viewer identity
)

// Error represents an application-specific error with a
// machine-readable code and a human-readable message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("application error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always report EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors get a generic message so internals don't leak.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
