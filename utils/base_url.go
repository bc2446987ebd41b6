package utils

import "github.com/gin-gonic/gin"

// GetBaseURL returns scheme://host as seen by the client, honouring the
// X-Forwarded-Proto header set by reverse proxies.
func GetBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
