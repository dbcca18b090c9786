package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"commons/internal/auth"
)

// Headers used to propagate identity from the gateway to downstream services.
const (
	// HeaderUserID carries the authenticated user's ID, set by the identity
	// gateway after verifying the bearer token.
	HeaderUserID = "X-User-ID"
	// HeaderOriginalAuth carries the caller's original Authorization header
	// so downstream services can forward it on orchestrated calls.
	HeaderOriginalAuth = "X-Original-Authorization"
)

// TrustedUser resolves the caller's identity from the X-User-ID header.
// Downstream services sit behind the gateway and trust this header; a request
// without it proceeds anonymously, a malformed value is rejected outright so
// a broken gateway cannot smuggle in a bogus identity.
func TrustedUser(c *fiber.Ctx) error {
	raw := c.Get(HeaderUserID)
	if raw == "" {
		return c.Next()
	}

	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid identity header",
		})
	}

	c.Locals("userID", uint(userID))
	return c.Next()
}

// RequireIdentity rejects requests that carry no resolved user identity.
// It must run after TrustedUser (or AuthRequired on the identity service).
func RequireIdentity(c *fiber.Ctx) error {
	if c.Locals("userID") == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}
	return c.Next()
}

// AuthRequired enforces bearer token authentication on the identity service.
// It verifies the token, stores the user ID and admin flag in locals, and
// keeps the raw Authorization value around for gateway forwarding.
func AuthRequired(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := tokens.VerifyToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("isAdmin", claims.IsAdmin)
		c.Locals("authHeader", authHeader)

		return c.Next()
	}
}

// AdminRequired rejects requests whose token did not carry the admin claim.
// It must run after AuthRequired.
func AdminRequired(c *fiber.Ctx) error {
	isAdmin, ok := c.Locals("isAdmin").(bool)
	if !ok || !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin privileges required",
		})
	}
	return c.Next()
}
