// Package server contains the HTTP servers and handlers for the identity,
// content, and reactions services.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commons/internal/models"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(param[:len(param)-2]) + " ID"
	}
	return param
}

// parseTargetType extracts and validates the :targetType route parameter.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseTargetType(c *fiber.Ctx) (models.TargetType, error) {
	targetType, ok := models.ParseTargetType(c.Params("targetType"))
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid target type"))
		return "", errResponseWritten
	}
	return targetType, nil
}

// currentUserID returns the authenticated user's ID from locals, or zero.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// respondServiceError maps a service-layer error onto the HTTP response.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithAppError(c, appErr)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Resource not found"})
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// livenessCheck handles liveness probe requests.
func livenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// readinessCheck builds a readiness handler over the service's DB and Redis.
// Redis is optional; a service without it reports "unavailable" but stays ready.
func readinessCheck(serviceName string, db *gorm.DB, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "healthy"
		sqlDB, err := db.DB()
		if err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		redisStatus := "healthy"
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				redisStatus = "unhealthy"
			}
		} else {
			redisStatus = "unavailable"
		}

		status := fiber.StatusOK
		overallStatus := "healthy"
		if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
			status = fiber.StatusServiceUnavailable
			overallStatus = "unhealthy"
		}

		return c.Status(status).JSON(fiber.Map{
			"service": serviceName,
			"status":  overallStatus,
			"checks": fiber.Map{
				"database": dbStatus,
				"redis":    redisStatus,
			},
			"time": time.Now(),
		})
	}
}
