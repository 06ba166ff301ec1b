package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/storefront-api/utils"
)

// RoleCheck dipasang setelah AuthMiddleware() pada group yang perannya campuran
func RoleCheck(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if !hasRole(role, roles) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%v access required", roles))
			c.Abort()
			return
		}

		c.Next()
	}
}
