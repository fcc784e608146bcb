package middleware

import (
	"github.com/gin-gonic/gin"
)

const anonymousCaller = "anonymous"

// NoAuth is a pass-through middleware for AUTH_MODE=none (self-hosted, local dev).
// Every caller is recorded as anonymous.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerIDKey, anonymousCaller)
		c.Next()
	}
}
