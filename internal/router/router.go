package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shalemacademy/fees-api/internal/config"
	"github.com/shalemacademy/fees-api/internal/handler"
	"github.com/shalemacademy/fees-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler *handler.StudentHandler
	FeeHandler     *handler.FeeHandler
	CreditHandler  *handler.CreditHandler
	FinanceHandler *handler.FinanceHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	branches := api.Group("/branches/:branch", jwtMiddleware)

	if deps.StudentHandler != nil {
		students := branches.Group("/students")
		deps.StudentHandler.Register(students)

		if deps.FeeHandler != nil {
			deps.FeeHandler.Register(students)
		}
	}

	if deps.CreditHandler != nil {
		credits := branches.Group("/credits")
		deps.CreditHandler.Register(credits)
	}

	if deps.FinanceHandler != nil {
		finance := branches.Group("/finance")
		deps.FinanceHandler.Register(finance)
	}
}
