package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mixtape/internal/services"
)

// ViewerKey is the Locals key under which the authenticated user id is
// stored. Empty or absent means an anonymous viewer.
const ViewerKey = "viewer_id"

// Viewer returns the authenticated user id for the request, or "" for an
// anonymous viewer.
func Viewer(c *fiber.Ctx) string {
	if id, ok := c.Locals(ViewerKey).(string); ok {
		return id
	}
	return ""
}

// AuthRequired rejects requests without a valid bearer access token
// before any handler logic runs.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := resolveToken(c, authService)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing or invalid access token",
			})
		}
		c.Locals(ViewerKey, userID)
		return c.Next()
	}
}

// AuthOptional identifies the viewer when a valid token is present and
// proceeds anonymously otherwise. Downstream code treats the anonymous
// viewer as all-personalization-off.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := resolveToken(c, authService); ok {
			c.Locals(ViewerKey, userID)
		}
		return c.Next()
	}
}

func resolveToken(c *fiber.Ctx, authService *services.AuthService) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	userID, err := authService.VerifyAccess(parts[1])
	if err != nil {
		return "", false
	}
	return userID, true
}
