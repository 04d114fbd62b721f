package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityHeader carries the caller's user ID. Authentication itself happens
// upstream (gateway session check); this service trusts the header.
const IdentityHeader = "X-User-ID"

const identityKey = "userID"

// IdentityMiddleware extracts the caller identity from the request and
// rejects requests that carry none.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(IdentityHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + IdentityHeader + " header",
			})
			return
		}

		c.Set(identityKey, userID)
		c.Next()
	}
}

// UserID returns the caller identity set by IdentityMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(identityKey)
}
