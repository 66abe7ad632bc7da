package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/motherboardhq/payment-service/app/controllers"
	"github.com/motherboardhq/payment-service/internal/pkg/constants"
	"github.com/motherboardhq/payment-service/internal/pkg/env"
	"github.com/motherboardhq/payment-service/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	controllers.InitializePaymentController()

	api := app.Group("/api",
		cors.New(),
		limiter.New(limiter.Config{
			Max:        120,
			Expiration: 1 * time.Minute,
			Storage:    newLimiterStorage(),
			// Webhook deliveries must never be rate limited into the
			// processor's retry loop.
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/webhooks/")
			},
		}),
	)

	api.Post(constants.RouteAPICustomers, controllers.HandleCreateCustomer)
	api.Post(constants.RouteAPIInitializePayment, controllers.HandleInitializePayment)
	api.Post(constants.RouteAPIVerifyPayment, controllers.HandleVerifyPayment)
	api.Post(constants.RouteAPICreateSubscription, controllers.HandleCreateSubscription)
	api.Get(constants.RouteAPISubscriptionStatus, controllers.HandleSubscriptionStatus)
	api.Post(constants.RouteAPICancelSubscription, controllers.HandleCancelSubscription)
	api.Post(constants.RouteAPIPaystackWebhook, controllers.HandlePaystackWebhook)

	admin := api.Group("/admin", middleware.AdminAPIKeyMiddleware())
	admin.Get(constants.RouteAPIAdminCustomers, controllers.HandleAdminListCustomers)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func newLimiterStorage() *redisstorage.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host: env.GetEnv("CACHE_HOST", "localhost"),
		Port: port,
	})
}
