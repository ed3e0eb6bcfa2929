package logging

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edubridge/university-lms/internal/logging"
)

// RequestLogger threads a request-scoped logger through the context and
// logs one line per completed request.
func RequestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			rl := l.With("request_id", reqID)

			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), rl)))

			err := next(c)

			rl.Info("http_request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
