package handlers

import (
	"cantina/internal/repositories"
	"cantina/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports database and cache reachability.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if repositories.DB != nil {
		sqlDB, err := repositories.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			status["database"] = "unreachable"
			return utils.Respond(c, fiber.StatusServiceUnavailable, status)
		}
		status["database"] = "ok"
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	return utils.Success(c, status)
}
