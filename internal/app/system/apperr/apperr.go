// Package apperr defines the error kinds surfaced to API clients.
//
// Every kind carries a stable machine-readable code that the GraphQL layer
// copies into the "extensions" object of the per-field error.
package apperr

import "errors"

// Codes reported in error extensions.
const (
	CodeValidation      = "VALIDATION"
	CodeAuthentication  = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeExpiredToken    = "EXPIRED_TOKEN"
	CodeExternalService = "EXTERNAL_SERVICE"
	CodeInternal        = "INTERNAL"
)

// Error is a client-facing error. Message is safe to show; Cause is kept for
// logs and errors.Is/As and never rendered.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Extensions implements the GraphQL engine's extensions hook.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

func newErr(code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// Validation reports a missing or malformed argument.
func Validation(msg string) *Error { return newErr(CodeValidation, msg, nil) }

// Authentication reports a missing or rejected credential.
func Authentication(msg string) *Error { return newErr(CodeAuthentication, msg, nil) }

// NotFound reports a referenced entity that does not exist.
func NotFound(msg string) *Error { return newErr(CodeNotFound, msg, nil) }

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error { return newErr(CodeConflict, msg, nil) }

// ExpiredToken reports a password-reset token that is unknown or past expiry.
func ExpiredToken(msg string) *Error { return newErr(CodeExpiredToken, msg, nil) }

// ExternalService reports a failure of a required collaborator.
func ExternalService(msg string, cause error) *Error {
	return newErr(CodeExternalService, msg, cause)
}

// Internal hides an unexpected failure behind msg.
func Internal(msg string, cause error) *Error { return newErr(CodeInternal, msg, cause) }

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool { return CodeOf(err) == code }
