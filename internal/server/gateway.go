package server

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"commons/internal/middleware"
	"commons/internal/models"
)

// Forward returns the gateway handler that verifies the caller's bearer token
// once and relays the request to the named downstream service with trusted
// identity headers. Admin forwards additionally carry the caller's original
// Authorization value so the orchestrator can pass it further downstream.
func (s *IdentityServer) Forward(baseURL, service string, admin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		claims, err := s.tokens.VerifyToken(parts[1])
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Request().Header.Set(middleware.HeaderUserID,
			strconv.FormatUint(uint64(claims.UserID), 10))
		if admin {
			c.Request().Header.Set(middleware.HeaderOriginalAuth, authHeader)
		}

		target := baseURL + c.OriginalURL()
		if err := proxy.Do(c, target); err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "gateway forward failed",
				"service", service, "target", target, "error", err.Error())
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				models.NewUpstreamError(service+" service unreachable", 0, err))
		}

		// The downstream status and body are relayed unchanged
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
