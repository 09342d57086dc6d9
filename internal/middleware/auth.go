package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"school-clinic-server/internal/config"
	"school-clinic-server/internal/models"
	"school-clinic-server/internal/utils"
)

// Principal is the authenticated identity attached to a request after token
// validation.
type Principal struct {
	UserID   string
	Role     models.Role
	FullName string
}

const principalKey = "principal"

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				utils.Unauthorized(c, "Token expired")
			} else {
				utils.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(principalKey, Principal{
			UserID:   claims.UserID,
			Role:     claims.Role,
			FullName: claims.FullName,
		})

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.InternalServerError(c, "Principal not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if principal.Role == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			utils.Forbidden(c, "You do not have permission to access this resource.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the authenticated principal from the request context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}
