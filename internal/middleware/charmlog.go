package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs each request on the control socket through the package
// logger. Successful requests log at debug so status polling stays quiet.
func CharmLog() echo.MiddlewareFunc {
	return CharmLogWith(log.Default())
}

func CharmLogWith(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency", time.Since(start).Round(time.Microsecond),
			}

			switch {
			case err != nil:
				logger.Error("request failed", append(fields, "err", err)...)
			case res.Status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Debug("request", fields...)
			}

			return nil
		}
	}
}
