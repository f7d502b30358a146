package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder is implemented by metrics.Recorder.
type RequestRecorder interface {
	RecordRequest(route, method string, status int, d time.Duration)
}

// Metrics records every request under its templated route so raw URLs
// never become label values.
func Metrics(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
