package controllers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/motherboardhq/payment-service/internal/pkg/billing"
	"github.com/motherboardhq/payment-service/internal/pkg/env"
)

// HandlePaystackWebhook handles POST /api/webhooks/paystack.
//
// Webhook processing is best-effort by contract: the processor retries
// deliveries that look failed, so this handler always acknowledges with a
// 200 and reports problems only in the body ("status":"error"). Failed
// signature checks write nothing.
func HandlePaystackWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("x-paystack-signature")
	secret := env.GetEnv("PAYSTACK_SECRET_KEY", "")

	if !billing.VerifyPaystackWebhookSignature(rawBody, signature, secret) {
		log.Print("paystack webhook rejected: invalid or missing signature")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "error", "message": "invalid signature"})
	}

	event, err := billing.ParseWebhookEvent(rawBody)
	if err != nil {
		log.Printf("paystack webhook rejected: unparsable payload: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "error", "message": "invalid payload"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch {
	case event.Event == billing.EventChargeSuccess:
		err = paymentService.HandleChargeSuccess(ctx, event)
	case event.IsSubscriptionDisable():
		err = paymentService.HandleSubscriptionDisabled(ctx, event)
	default:
		// Unhandled events are acknowledged so Paystack stops redelivering.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}

	if err != nil {
		log.Printf("paystack webhook %s processing failed: %v", event.Event, err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "error"})
	}

	invalidateStatusCache(event.Data.Customer.Email)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
