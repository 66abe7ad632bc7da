package controllers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/motherboardhq/payment-service/internal/pkg/billing"
	"github.com/motherboardhq/payment-service/internal/pkg/paystack"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()

	app := fiber.New()
	app.Get("/t", func(c *fiber.Ctx) error {
		return mapServiceError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest("GET", "/t", nil))
	assert.NoError(t, testErr)
	return resp.StatusCode
}

func TestMapServiceError(t *testing.T) {
	assert.Equal(t, fiber.StatusConflict, statusFor(t, billing.ErrDuplicateCustomer))
	assert.Equal(t, fiber.StatusConflict, statusFor(t, billing.ErrDuplicateReference))
	assert.Equal(t, fiber.StatusNotFound, statusFor(t, billing.ErrCustomerNotFound))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(t, billing.ErrAuthorizationRequired))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(t, billing.ErrNoActiveSubscription))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(t, billing.ErrMissingToken))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(t, &paystack.RejectedError{StatusCode: 400, Message: "nope"}))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(t, &paystack.UnreachableError{Err: errors.New("dial tcp")}))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(t, errors.New("boom")))
}

func TestMapServiceErrorWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), billing.ErrCustomerNotFound)
	assert.Equal(t, fiber.StatusNotFound, statusFor(t, wrapped))
}
