package middleware

import (
	"net/http"
	"runtime/debug"

	"etudia/logger"
	"etudia/utils"

	"github.com/gin-gonic/gin"
)

// EnhancedRecoveryMiddleware turns a panic into a JSON 500 and logs the stack.
func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Interface("panic", err).
					Str("request_id", c.GetString(RequestIDKey)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				utils.TrackError("http", "panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.ErrorResponse{Error: "Internal server error"})
			}
		}()
		c.Next()
	}
}
