package routes

import (
	link_handlers "planora.app/handlers/link"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes defines the routes that need no sign-in.
func registerPublicRoutes(app *fiber.App, deps Dependencies, svc *serviceSet) {
	publicHandler := link_handlers.NewPublicLinkHandler(svc.links)
	healthHandler := link_handlers.NewHealthHandler(deps.DB)
	sessionHandler := link_handlers.NewSessionHandler(deps.Config.AuthSignOutURL)

	app.Get("/healthz", healthHandler.Health)
	app.Get("/e/:key", publicHandler.ShowEvent)
	app.Get("/auth/logout", sessionHandler.Logout)
	app.Post("/auth/logout", sessionHandler.Logout)
}
