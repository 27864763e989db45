package errs

import (
	"net/http"
)

// Codes for domain failures. Framework failures use the status text.
const (
	CodeEmployeeAlreadyExists = "EMPLOYEE_ALREADY_EXISTS"
	CodeEmployeeNotFound      = "EMPLOYEE_NOT_FOUND"
	CodeValidationFailed      = "VALIDATION_FAILED"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 HTTPError. code defaults to BAD_REQUEST when empty.
func NewBadRequestError(message, code string, fieldErrors []FieldError) *HTTPError {
	if code == "" {
		code = statusCode(http.StatusBadRequest)
	}
	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a 404 HTTPError. code defaults to NOT_FOUND when empty.
func NewNotFoundError(message, code string) *HTTPError {
	if code == "" {
		code = statusCode(http.StatusNotFound)
	}
	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewConflictError creates a 409 HTTPError. code defaults to CONFLICT when empty.
func NewConflictError(message, code string) *HTTPError {
	if code == "" {
		code = statusCode(http.StatusConflict)
	}
	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewServiceUnavailableError creates a 503 HTTPError.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusServiceUnavailable),
		Message: message,
		Status:  http.StatusServiceUnavailable,
	}
}

// NewInternalServerError creates a 500 HTTPError. The message is always the
// generic status text; the cause is logged, never sent.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
