package middleware

import (
	"net/http"
	"strings"

	"guidewizard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionTokenHeader carries the wizard session token for clients that cannot set Authorization.
const SessionTokenHeader = "X-Session-Token"

// sessionToken reads the token from "Authorization: Bearer" or X-Session-Token.
func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader(SessionTokenHeader))
}

// SessionAuthMiddleware resolves the session token to a wizard session id and stores it as "sessionID".
func SessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Message: "Missing session token",
				Details: "send Authorization: Bearer <token> or " + SessionTokenHeader,
			})
			return
		}

		sessionID, err := utils.ExtractSessionID(tokenString)
		if err != nil {
			zap.L().Debug("SessionAuthMiddleware: rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Invalid session token"})
			return
		}

		c.Set("sessionID", sessionID)
		c.Next()
	}
}
