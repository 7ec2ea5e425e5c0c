package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/interfaces/http/dto"
)

// RequireRole allows the request only when the resolved dealership role is
// in the allow-list. Must run after DealershipGuard.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetDealershipRole(c)
		if !ok {
			abortForbidden(c, "Dealership role not resolved")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortForbidden(c, "Insufficient role for this operation")
	}
}

// RequirePlatformAdmin allows only principals carrying the platform-admin
// claim. Runs directly after JWT auth; no dealership context needed.
func RequirePlatformAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsPlatformAdmin(c) {
			abortForbidden(c, "Platform administrator access required")
			return
		}
		c.Next()
	}
}

// RequirePlatformOrDealershipAdmin allows platform admins, platform
// operators, or users holding the ADMIN role in the resolved dealership
func RequirePlatformOrDealershipAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPlatformAdmin(c) || IsPlatformOperator(c) {
			c.Next()
			return
		}
		if role, ok := GetDealershipRole(c); ok && role == identity.RoleAdmin {
			c.Next()
			return
		}
		abortForbidden(c, "Administrator access required")
	}
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden, message))
}
