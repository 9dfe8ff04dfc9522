package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const devUserID = "demo-user"

// DevUser sets a firebase uid in context without verifying anything.
// - Reads X-User-Id, falls back to "demo-user".
// - Use this ONLY for development/testing.
func DevUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = devUserID
		}
		c.Set(CtxFirebaseUID, uid)
		c.Next()
	}
}
