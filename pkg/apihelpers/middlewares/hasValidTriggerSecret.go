package middlewares

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HasValidTriggerSecret guards scheduler-triggered endpoints with a shared
// secret passed as a query parameter. Comparison is constant time.
func HasValidTriggerSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		received := c.Query("secret")

		if secret == "" || subtle.ConstantTimeCompare([]byte(received), []byte(secret)) != 1 {
			slog.Error("Invalid trigger secret")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
			c.Abort()
			return
		}
		c.Next()
	}
}
