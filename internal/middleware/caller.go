package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const callerIDKey = contextKey("callerID")

// CallerHeader carries the pre-authenticated caller identity. The authorization
// layer fronting this service has already verified the caller may act; this core
// only records who acted.
const CallerHeader = "X-Caller-ID"

// CallerIdentity extracts the caller identity forwarded by the authorization layer
// and rejects requests that arrive without one.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetHeader(CallerHeader)
		if callerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), callerIDKey, callerID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetCallerIDFromContext retrieves the caller identity from the Gin context.
// It returns the caller ID and a boolean indicating if it was found.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	callerID, ok := c.Request.Context().Value(callerIDKey).(string)
	if !ok || callerID == "" {
		return "", false
	}
	return callerID, true
}
