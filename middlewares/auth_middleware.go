package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-table-service/utils"
)

// AuthMiddleware attaches the acting staff identity (user_id, user_name,
// role) to the request context. Token comes from the Authorization header,
// or from ?token= for websocket clients that cannot set headers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token != "" {
			if !strings.HasPrefix(token, "Bearer ") {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
				c.Abort()
				return
			}
			token = strings.TrimPrefix(token, "Bearer ")
		} else {
			token = c.Query("token")
		}

		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("role", claims.Role)
		c.Next()
	}
}
