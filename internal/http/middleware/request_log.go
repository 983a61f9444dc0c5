package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/onboarding-backend/internal/platform/ctxutil"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. The logger hashes session_id,
// so raw session tokens never reach the log sink. Errors recorded on the
// gin context (store failure causes) are logged here and nowhere else.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", c.Writer.Size(),
		}
		if n := c.Request.ContentLength; n > 0 {
			kv = append(kv, "bytes_in", n)
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			kv = append(kv, "request_id", td.RequestID, "trace_id", td.TraceID)
			if td.SessionID != "" {
				kv = append(kv, "session_id", td.SessionID)
			}
		}
		if last := c.Errors.Last(); last != nil {
			kv = append(kv, "error", last.Err)
		}

		switch {
		case status >= 500:
			log.Error("Request failed", kv...)
		case status >= 400:
			log.Warn("Request rejected", kv...)
		default:
			log.Info("Request served", kv...)
		}
	}
}

// routeLabel is the matched route template, so ids never end up in labels.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
