package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader carries the authenticated user's id. Authentication
	// itself happens upstream; the ledger only scopes every operation to
	// this identity.
	UserIDHeader = "X-User-ID"

	// UserIDKey is the key used to store the user id in the context
	UserIDKey = "user_id"
)

// Identity middleware requires a valid user id on every request and makes
// it available to handlers. Requests without one are rejected before any
// handler runs.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			abortUnauthorized(c, "Missing "+UserIDHeader+" header")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid "+UserIDHeader+" header")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the requesting user's id from the gin context
func GetUserID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get(UserIDKey); exists {
		if userID, ok := id.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
