package server

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// requestLogger logs each request at a level chosen by its response status.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			// Probes are too noisy to log
			if req.URL.Path == "/health" || req.URL.Path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", c.RealIP(),
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}

			ctx := req.Context()
			switch {
			case status >= 500:
				logger.ErrorContext(ctx, "request completed", attrs...)
			case status >= 400:
				logger.WarnContext(ctx, "request completed", attrs...)
			default:
				logger.InfoContext(ctx, "request completed", attrs...)
			}
			return nil
		}
	}
}
