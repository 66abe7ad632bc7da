package controllers

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/motherboardhq/payment-service/app/models"
	"github.com/motherboardhq/payment-service/internal/pkg/billing"
	"github.com/motherboardhq/payment-service/internal/pkg/cache"
	"github.com/motherboardhq/payment-service/internal/pkg/database"
	"github.com/motherboardhq/payment-service/internal/pkg/env"
	"github.com/motherboardhq/payment-service/internal/pkg/paystack"
)

const (
	requestTimeout       = 20 * time.Second
	statusCacheTTL       = 30 * time.Second
	statusCacheKeyPrefix = "subscription-status:"
)

var paymentService *billing.Service

// InitializePaymentController wires the reconciler with the Paystack client
// and the configured plan. Called once by the router installer.
func InitializePaymentController() {
	amount, err := strconv.ParseInt(env.GetEnv("PAYSTACK_CHARGE_AMOUNT", "8000"), 10, 64)
	if err != nil {
		amount = 8000
	}

	paymentService = billing.NewServiceFromDB(
		database.GetDB(),
		paystack.NewClientFromEnv(),
		billing.Config{
			PlanID:       env.GetEnv("PAYSTACK_PLAN_ID", ""),
			ChargeAmount: amount,
		},
	)
}

// PaymentService exposes the wired reconciler to other controllers.
func PaymentService() *billing.Service {
	return paymentService
}

// HandleCreateCustomer handles POST /api/customers.
func HandleCreateCustomer(c *fiber.Ctx) error {
	var req models.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := paymentService.RegisterCustomer(ctx, req.Email, req.FirstName, req.LastName)
	if err != nil {
		return mapServiceError(c, err)
	}
	return respondSuccess(c, "Customer created successfully", result)
}

// HandleInitializePayment handles POST /api/initialize-payment.
func HandleInitializePayment(c *fiber.Ctx) error {
	var req models.InitializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	init, err := paymentService.InitializeCharge(ctx, req.Email, req.Amount, req.Channels)
	if err != nil {
		return mapServiceError(c, err)
	}
	return respondSuccess(c, "Payment initialized. Redirect customer to authorization_url", init)
}

// HandleVerifyPayment handles POST /api/verify-payment.
func HandleVerifyPayment(c *fiber.Ctx) error {
	var req models.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := paymentService.VerifyCharge(ctx, req.Reference)
	if err != nil {
		return mapServiceError(c, err)
	}
	if !result.Verified {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "failed",
			"message": "Payment was not successful",
		})
	}

	invalidateStatusCache(result.Email)
	return respondSuccess(c, "Payment verified! Customer is now authorized for subscriptions.", result)
}

// HandleCreateSubscription handles POST /api/create-subscription.
func HandleCreateSubscription(c *fiber.Ctx) error {
	var req models.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := paymentService.CreateSubscription(ctx, req.Email)
	if err != nil {
		return mapServiceError(c, err)
	}

	invalidateStatusCache(result.Email)
	message := "Subscription created successfully!"
	if result.AlreadySubscribed {
		message = "Customer is already subscribed"
	}
	return respondSuccess(c, message, result)
}

// HandleSubscriptionStatus handles GET /api/subscription-status/:email.
// Responses are cached briefly; mutating endpoints invalidate the key.
func HandleSubscriptionStatus(c *fiber.Ctx) error {
	email := models.NormalizeEmail(c.Params("email"))
	if email == "" {
		return respondError(c, fiber.StatusBadRequest, "email is required")
	}

	cacheKey := statusCacheKeyPrefix + email
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).SendString(cached)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	status, err := paymentService.SubscriptionStatus(ctx, email)
	if err != nil {
		return mapServiceError(c, err)
	}

	body := statusResponseBody(status)
	if encoded, err := json.Marshal(body); err == nil {
		_ = cache.Set(cacheKey, string(encoded), statusCacheTTL)
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// HandleCancelSubscription handles POST /api/cancel-subscription/:email.
func HandleCancelSubscription(c *fiber.Ctx) error {
	email := models.NormalizeEmail(c.Params("email"))
	if email == "" {
		return respondError(c, fiber.StatusBadRequest, "email is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := paymentService.CancelSubscription(ctx, email); err != nil {
		return mapServiceError(c, err)
	}

	invalidateStatusCache(email)
	return respondSuccess(c, "Subscription cancelled successfully", nil)
}

func statusResponseBody(status *billing.StatusResult) fiber.Map {
	if !status.Found {
		return fiber.Map{
			"status":              "not_found",
			"subscription_active": false,
			"state":               status.State,
		}
	}

	body := fiber.Map{
		"status":              "found",
		"subscription_active": status.SubscriptionActive,
		"email":               status.Email,
		"first_name":          status.FirstName,
		"last_name":           status.LastName,
		"state":               status.State,
	}
	if status.SubscriptionCode != "" {
		body["subscription_code"] = status.SubscriptionCode
	}
	if status.CreatedAt != nil {
		body["created_at"] = status.CreatedAt.UTC().Format(time.RFC3339)
	}
	return body
}

func invalidateStatusCache(email string) {
	if email == "" {
		return
	}
	_ = cache.Delete(statusCacheKeyPrefix + models.NormalizeEmail(email))
}
