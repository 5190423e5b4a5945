package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/logger"
)

// RequestLoggerMiddleware logs every request as: METHOD URL | status | latency.
// Query strings are dropped so reset tokens never reach the log.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		if statusCode >= 500 {
			logger.Error("%s %s | status=%d | latency=%v | errors=%s",
				c.Request.Method, path, statusCode, latency, c.Errors.String())
		} else if statusCode >= 400 {
			logger.Info("%s %s | status=%d | latency=%v",
				c.Request.Method, path, statusCode, latency)
		} else {
			logger.Debug("%s %s | status=%d | latency=%v",
				c.Request.Method, path, statusCode, latency)
		}
	}
}
