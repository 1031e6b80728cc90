package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestLogger logs one line per request. Health and metrics probes are
// not logged.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		attrs := []any{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"request_id", requestID,
		}
		for _, e := range c.Errors {
			logger.Error("request error", append(attrs, "err", e.Err)...)
		}
		if len(c.Errors) > 0 {
			return
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("server error", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("client error", attrs...)
		default:
			logger.Debug("request completed", attrs...)
		}
	}
}
