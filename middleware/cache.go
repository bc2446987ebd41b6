package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware sets the Cache-Control header to directive.
func CacheControlMiddleware(directive string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", directive)
		c.Next()
	}
}
