package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request's trace id
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the key used to store the correlation id in the context
	CorrelationIDKey = "correlation_id"

	// maxCorrelationIDLength caps a client-supplied id so log records stay bounded
	maxCorrelationIDLength = 128
)

// CorrelationID tags every request with a trace id: a usable client-supplied
// one is echoed back, anything else is replaced with a fresh UUID. Handlers
// and error responses read it through GetCorrelationID.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" || len(id) > maxCorrelationIDLength {
			id = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, id)
		c.Set(CorrelationIDKey, id)

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation id, or "" outside the
// middleware chain
func GetCorrelationID(c *gin.Context) string {
	if v, exists := c.Get(CorrelationIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
