package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motherboardhq/payment-service/internal/pkg/database"
)

// HandleRoot handles GET /.
func HandleRoot(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Motherboard+ Service Payment API",
		"status":  "running",
	})
}

// HandleHealth handles GET /health with a database ping.
func HandleHealth(c *fiber.Ctx) error {
	db := database.GetDB()
	if db == nil {
		return respondError(c, fiber.StatusInternalServerError, "database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		return respondError(c, fiber.StatusInternalServerError, "database connection failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "ok",
		"database": "connected",
	})
}
