package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motherboardhq/payment-service/app/controllers"
	"github.com/motherboardhq/payment-service/internal/pkg/constants"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get(constants.RouteRoot, controllers.HandleRoot)
	app.Get(constants.RouteHealth, controllers.HandleHealth)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
