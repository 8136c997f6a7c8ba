package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/stevew1007/mission-runner-api/internal/database"
	apierrors "github.com/stevew1007/mission-runner-api/internal/errors"
	"github.com/stevew1007/mission-runner-api/internal/models"
)

// RequireRole checks that the authenticated user holds one of the given
// roles before the handler runs. Service-level checks stay in place; this
// gate just keeps obviously unauthorized requests off the services.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Insufficient role for this action")
		c.Abort()
	}
}
