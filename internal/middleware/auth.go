// Package middleware provides HTTP middleware for the fiber app:
// JWT validation and permission checks against the profile's permission
// list.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"cardvault/internal/models"
	"cardvault/internal/services/auth"
	"cardvault/internal/utils"
)

// AuthMiddleware validates the bearer token and stores the claims in the
// request locals.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := m.authService.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	c.Locals("companyID", claims.CompanyID)
	return c.Next()
}

// RequirePermission guards a route behind one entry of the profile's
// permission list. The "*" wildcard grants everything.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return utils.Unauthorized(c, "missing claims")
		}
		if !claims.HasPermission(perm) {
			return utils.Forbidden(c, "insufficient permissions")
		}
		return c.Next()
	}
}

// Claims extracts the validated claims from the request locals.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals("claims").(*models.UserClaims)
	return claims
}
