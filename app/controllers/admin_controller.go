package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// HandleAdminListCustomers handles GET /api/admin/customers. No pagination;
// this backs an admin console, not a public listing.
func HandleAdminListCustomers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	customers, err := paymentService.ListCustomers(ctx)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"total_customers": len(customers),
		"customers":       customers,
	})
}
