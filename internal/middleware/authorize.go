package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/models"
)

// RequireRoles declares the allowed-role set for a route. Membership is
// exact: there is no role hierarchy, a role is permitted only if listed.
// An empty set means any authenticated user.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(roleSet) > 0 {
			if _, ok := roleSet[models.UserRole(claims.Role)]; !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Next()
	}
}
