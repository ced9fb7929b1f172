package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the Gin context key holding the request id.
	RequestIDKey = "request_id"
	// RequestIDHeader is the header the id is read from and echoed to.
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags each request with a unique id. An id supplied by an
// upstream proxy is kept; otherwise a fresh UUID is generated. The id
// is stored in the context and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or an empty
// string when the middleware is not installed.
func GetRequestID(c *gin.Context) string {
	if value, exists := c.Get(RequestIDKey); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
