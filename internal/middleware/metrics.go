package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_crud/internal/errs"
	"github.com/locvowork/employee_crud/internal/metrics"
)

// Metrics records request count, latency and in-flight requests labelled by
// route template. The metrics endpoint itself is skipped.
func Metrics(metricsPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == metricsPath {
				return next(c)
			}

			start := time.Now()
			metrics.RequestStarted()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = errs.Translate(err).Status
			}
			metrics.ObserveRequest(c.Request().Method, c.Path(), status, time.Since(start))

			return err
		}
	}
}
