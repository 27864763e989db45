package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/errs"
	"github.com/pkg/errors"
)

// ErrorHandler is the echo HTTPErrorHandler. Every error returned by a
// handler ends up here and is written as an errs.HTTPError body.
func ErrorHandler(err error, c echo.Context) {
	httpErr := errs.Translate(err)

	l := GetLogger(c)
	if httpErr.Status >= 500 {
		l.Error().Stack().Err(err).Int("status", httpErr.Status).Str("error_code", httpErr.Code).Msg(httpErr.Message)
	} else {
		var passthrough *errs.HTTPError
		if !errors.As(err, &passthrough) {
			l.Debug().Err(err).Int("status", httpErr.Status).Str("error_code", httpErr.Code).Msg(httpErr.Message)
		}
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}
	_ = c.JSON(httpErr.Status, httpErr)
}
