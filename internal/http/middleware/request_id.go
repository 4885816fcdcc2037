package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	// RequestIDKey is the gin context key carrying the request id.
	RequestIDKey = "requestID"
)

// RequestID propagates an incoming request id or generates one when absent.
// The id is set on both the response header and the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(RequestIDKey, requestID)
		c.Next()
	}
}
