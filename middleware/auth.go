package middleware

import (
	"net/http"
	"strings"

	"github.com/brianmwiruki/Thrills/auth"
	"github.com/gin-gonic/gin"
)

// ValidateToken requires a guest session token and stores its session id
// under "session_id". Browsers cannot set headers on websocket upgrades, so
// the token may also come from the "token" query parameter.
func ValidateToken(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		sessionID, err := issuer.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
