package api

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apierrors "github.com/smplat/fulfillment/internal/errors"
)

// RequireAPIKey is the single-key admission check spec.md §6 scopes RBAC
// down to: every protected route compares X-API-Key against the
// configured checkout API key in constant time.
func RequireAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-API-Key")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			respondError(c, apierrors.Auth("missing or invalid API key"))
			c.Abort()
			return
		}
		c.Next()
	}
}
