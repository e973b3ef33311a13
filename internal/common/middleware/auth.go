package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"participant-service/internal/common/errors"
)

// RequireServiceToken guards inter-service endpoints with a shared secret
// carried in X-Service-Token. An empty configured token disables the check,
// which is the local-development mode.
func RequireServiceToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-Service-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			SendError(c, errors.New(errors.ErrCodeUnauthorized, "invalid or missing service token"))
			return
		}
		c.Next()
	}
}
