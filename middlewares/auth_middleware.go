package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-app/utils"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(token, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
