package errs

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/database"
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/pkg/errors"
)

// Translate maps an error returned by a handler into the HTTPError sent to
// the client. It is the only place where domain and store failures become
// status codes.
func Translate(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return NewConflictError(conflict.Error(), CodeEmployeeAlreadyExists)
	}

	if errors.Is(err, domain.ErrEmployeeNotFound) {
		return NewNotFoundError(err.Error(), CodeEmployeeNotFound)
	}

	var storeErr *database.StoreError
	if errors.As(err, &storeErr) {
		if errors.Is(storeErr, database.ErrDuplicateKey) {
			return NewConflictError("resource already exists", "")
		}
		return NewInternalServerError()
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return NewNotFoundError("Route not found", "")
		}
		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		return &HTTPError{
			Code:    statusCode(echoErr.Code),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	return NewInternalServerError()
}
