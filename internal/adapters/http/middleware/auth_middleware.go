package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"notaria-digital/internal/config"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/pkg/jwt"
	"notaria-digital/internal/pkg/response"
)

const identityKey = "identity"

// AuthMiddleware creates authentication middleware. It validates the
// signed access token and stores the caller identity in Locals; every
// service call receives that identity explicitly.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set caller identity in context
		c.Locals(identityKey, domain.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   domain.Role(claims.Role),
		})

		return c.Next()
	}
}

// CallerIdentity returns the authenticated caller stored by AuthMiddleware
func CallerIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// RoleMiddleware creates role-based authorization middleware. It is a
// coarse transport-level gate; the services re-check the access policy.
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CallerIdentity(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if identity.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// StaffOnly middleware allows EMPLOYEE or ADMIN roles
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleEmployee, domain.RoleAdmin)
}
