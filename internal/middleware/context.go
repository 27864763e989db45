package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/logger"
	"github.com/rs/zerolog"
)

// ContextLogger stores a request scoped logger in the request context so that
// logger.InfoLog and friends pick up request_id, method and path downstream.
// It must run after RequestID.
func ContextLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logger.WithLogger(c.Request().Context(), map[string]interface{}{
				"request_id": GetRequestID(c),
				"method":     c.Request().Method,
				"path":       c.Path(),
			})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger returns the request scoped logger, falling back to the global one.
func GetLogger(c echo.Context) *zerolog.Logger {
	return logger.FromContext(c.Request().Context())
}
