package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crm-backend/internal/drive"
)

const accessTokenKey = "accessToken"

// AccessToken extracts the pass-through Drive credential from the
// Authorization header and stores it in the request context. Tokens are
// opaque here; nothing validates them. Handlers that need remote access
// reject requests where no token was supplied, while read-only endpoints
// degrade gracefully without one.
func AccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header != "" {
			if token, err := drive.BearerToken(header); err == nil {
				c.Set(accessTokenKey, token)
			}
		}
		c.Next()
	}
}

// AccessTokenFromContext fetches the token stored by AccessToken, or "".
func AccessTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accessTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}
