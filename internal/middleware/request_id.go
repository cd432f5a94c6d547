package middleware

import (
	"uni-hris/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID only propagates X-Request-ID. Use it instead of ContextLogger
// where per-request logging is not wanted (health checks).
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := stampRequestID(c)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// stampRequestID reuses the caller's X-Request-ID or mints one, and echoes it
// on the response.
func stampRequestID(c *gin.Context) string {
	rid := c.GetHeader("X-Request-ID")
	if rid == "" {
		rid = uuid.New().String()
	}
	c.Header("X-Request-ID", rid)
	c.Set("request_id", rid)
	return rid
}
