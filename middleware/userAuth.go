package middleware

import (
	"net/http"
	"strings"

	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthUserMiddleware accepts "Authorization: Bearer <jwt>" and stores the user ID
// under utils.ContextUserIDKey. Token issuance belongs to the identity service.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			utils.GetLogger().Debug("Rejected bearer token", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(utils.ContextUserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
		Message: "Insufficient authorization",
		Code:    "UNAUTHORIZED",
	})
}
