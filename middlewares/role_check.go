package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// RequireRole menolak request bila role user tidak termasuk daftar. Admin
// selalu lolos.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if userRole == models.RoleAdmin {
			c.Next()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%v access required", roles))
		c.Abort()
	}
}
