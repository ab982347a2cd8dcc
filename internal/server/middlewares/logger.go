package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger logs the start and the end of every request on the "http" logger.
func Logger() gin.HandlerFunc {
	log := zap.S().Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"ip", c.ClientIP(),
			"user-agent", c.Request.UserAgent(),
			"time", start.Format(time.RFC3339),
		}
		log.Debugw("request started", fields...)

		c.Next()

		fields = append(fields, "status", c.Writer.Status(), "latency", time.Since(start))
		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				log.Errorw(e, fields...)
			}
			return
		}
		log.Infow("request completed", fields...)
	}
}
