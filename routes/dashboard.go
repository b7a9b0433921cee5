package routes

import (
	"planora.app/authz"
	dashboard_handlers "planora.app/handlers/dashboard"
	"planora.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes defines the administration pages under /dashboard.
func registerDashboardRoutes(app *fiber.App, deps Dependencies, svc *serviceSet) {
	userHandler := dashboard_handlers.NewDashboardUserHandler(svc.users, svc.settings)

	dashboardGroup := app.Group("/dashboard")
	dashboardGroup.Use(middlewares.Auth(authConfig(deps, svc)))

	dashboardGroup.Get("/users", middlewares.RequirePermission(authz.UsersManage), userHandler.ListUsers)
	dashboardGroup.Post("/users/:id<int>/role", middlewares.RequirePermission(authz.UsersManage), userHandler.ChangeRole)
	dashboardGroup.Get("/settings", middlewares.RequirePermission(authz.SettingsRead), userHandler.ShowSettings)
}
