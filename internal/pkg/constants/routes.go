package constants

// Route paths registered by the routers.
const (
	RouteRoot   = "/"
	RouteHealth = "/health"

	RouteAPICustomers          = "/customers"
	RouteAPIInitializePayment  = "/initialize-payment"
	RouteAPIVerifyPayment      = "/verify-payment"
	RouteAPICreateSubscription = "/create-subscription"
	RouteAPISubscriptionStatus = "/subscription-status/:email"
	RouteAPICancelSubscription = "/cancel-subscription/:email"
	RouteAPIPaystackWebhook    = "/webhooks/paystack"
	RouteAPIAdminCustomers     = "/customers"
)
