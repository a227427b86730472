package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/database"
	"github.com/waslhq/wasl-api/utils/response"
)

// HandleCheckHealth reports API and database health.
// GET /health
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": "unreachable",
		})
	}
	return response.Success(c, fiber.Map{
		"status":   "ok",
		"database": "ok",
	})
}
