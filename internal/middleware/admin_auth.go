package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "intabyu/internal/errors"
)

// AdminAuthMiddleware guards administrative routes (edits, deletes and
// wipes) by comparing the X-API-Key header with the configured admin key.
// When no key is configured the routes are disabled.
func AdminAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithAppError(c, apperrors.ErrAdminNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func abortWithAppError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error": gin.H{"code": err.Code, "message": err.Message},
	})
}
