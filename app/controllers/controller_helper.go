package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/motherboardhq/payment-service/internal/pkg/billing"
	"github.com/motherboardhq/payment-service/internal/pkg/paystack"
)

func respondSuccess(c *fiber.Ctx, message string, data any) error {
	body := fiber.Map{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// mapServiceError translates the reconciler error taxonomy onto HTTP
// statuses: precondition failures 400, unknown customers 404, duplicates
// 409, processor errors 502 with the upstream message passed through,
// everything else 500.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrDuplicateCustomer),
		errors.Is(err, billing.ErrDuplicateReference):
		return respondError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, billing.ErrCustomerNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrAuthorizationRequired),
		errors.Is(err, billing.ErrNoActiveSubscription),
		errors.Is(err, billing.ErrMissingToken):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	var rejected *paystack.RejectedError
	if errors.As(err, &rejected) {
		return respondError(c, fiber.StatusBadGateway, rejected.Message)
	}
	var unreachable *paystack.UnreachableError
	if errors.As(err, &unreachable) {
		return respondError(c, fiber.StatusBadGateway, "payment processor unreachable")
	}

	return respondError(c, fiber.StatusInternalServerError, "internal server error")
}
