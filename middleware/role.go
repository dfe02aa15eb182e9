package middleware

import (
	"net/http"

	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets through only callers holding one of roles. It runs after JWTAuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[CurrentActor(c).Role]; !ok {
			utils.JSONError(c, http.StatusForbidden, "Forbidden", "Insufficient role for this resource")
			return
		}
		c.Next()
	}
}
