package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/reviewloop-backend/internal/platform/ctxutil"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. Bodies are never logged; the client ip
// is hashed by the logger's redaction.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		if id := c.Param("id"); id != "" {
			fields = append(fields, "survey_id", id)
		}
		if n := c.Request.ContentLength; n > 0 {
			fields = append(fields, "bytes_in", n)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		logAt(log, status)("HTTP request", fields...)
	}
}

func logAt(log *logger.Logger, status int) func(string, ...interface{}) {
	switch {
	case status >= 500:
		return log.Error
	case status >= 400:
		return log.Warn
	default:
		return log.Info
	}
}
