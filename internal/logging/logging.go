// Package logging configures logrus and carries a request-scoped entry
// through context.Context.
package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Init sets the global logrus level and formatter.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stdout)
	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// ToContext stores entry in ctx.
func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored in ctx, or a bare entry on the
// standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Middleware attaches an entry tagged with the request id to the request
// context and logs one line per completed request.  It must run after
// echo's RequestID middleware.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			entry := logrus.WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       c.Path(),
			})
			c.SetRequest(req.WithContext(ToContext(req.Context(), entry)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := logrus.Fields{
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
			}
			switch status := c.Response().Status; {
			case status >= 500:
				entry.WithFields(fields).Error("request failed")
			case status >= 400:
				entry.WithFields(fields).Warn("request rejected")
			default:
				entry.WithFields(fields).Info("request handled")
			}
			return nil
		}
	}
}
