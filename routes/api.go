package routes

import (
	"planora.app/authz"
	api_handlers "planora.app/handlers/api"
	"planora.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes defines the JSON API under /api. Services enforce every
// permission; RequirePermission only rejects early.
func registerAPIRoutes(app *fiber.App, deps Dependencies, svc *serviceSet) {
	eventHandler := api_handlers.NewEventHandler(svc.events, svc.enrichment)
	rsvpHandler := api_handlers.NewRsvpHandler(svc.rsvps)
	invitationHandler := api_handlers.NewInvitationHandler(svc.invitations)
	inventoryHandler := api_handlers.NewInventoryHandler(svc.inventory)
	userHandler := api_handlers.NewUserHandler(svc.users)
	overviewHandler := api_handlers.NewOverviewHandler(svc.dashboard, svc.activity, svc.settings, svc.links)

	api := app.Group("/api")
	api.Use(middlewares.Auth(authConfig(deps, svc)))

	api.Get("/me", userHandler.Me)
	api.Get("/dashboard", middlewares.RequirePermission(authz.DashboardRead), overviewHandler.Dashboard)
	api.Get("/settings", middlewares.RequirePermission(authz.SettingsRead), overviewHandler.Settings)
	api.Get("/activity", middlewares.RequirePermission(authz.ActivityRead), overviewHandler.RecentActivity)
	api.Get("/calendar", middlewares.RequirePermission(authz.CalendarRead), eventHandler.Calendar)

	events := api.Group("/events")
	events.Get("/", middlewares.RequirePermission(authz.EventsRead), eventHandler.List)
	events.Post("/", middlewares.RequirePermission(authz.EventsCreate), eventHandler.Create)
	events.Post("/parse", middlewares.RequirePermission(authz.EventsCreate), eventHandler.Parse)
	events.Get("/conflicts", middlewares.RequirePermission(authz.EventsRead), eventHandler.Conflicts)
	events.Get("/:id<int>", middlewares.RequirePermission(authz.EventsRead), eventHandler.Get)
	events.Put("/:id<int>", eventHandler.Update)
	events.Post("/:id<int>/cancel", eventHandler.Cancel)
	events.Delete("/:id<int>", eventHandler.Delete)
	events.Put("/:id<int>/rsvp", rsvpHandler.Update)
	events.Get("/:id<int>/rsvps", middlewares.RequirePermission(authz.EventsRead), rsvpHandler.List)
	events.Post("/:id<int>/invitations", middlewares.RequirePermission(authz.InvitationsSend), invitationHandler.Send)
	events.Get("/:id<int>/invitations", invitationHandler.ListForEvent)
	events.Get("/:id<int>/activity", middlewares.RequirePermission(authz.ActivityRead), overviewHandler.EventActivity)
	events.Post("/:id<int>/links", overviewHandler.CreateLink)
	events.Get("/:id<int>/links", overviewHandler.ListLinks)
	events.Delete("/:id<int>/links/:linkID<int>", overviewHandler.DeleteLink)

	invitations := api.Group("/invitations")
	invitations.Get("/", invitationHandler.ListReceived)
	invitations.Put("/:id<int>/response", invitationHandler.Respond)
	invitations.Post("/:id<int>/cancel", invitationHandler.Cancel)

	inventory := api.Group("/inventory")
	inventory.Use(middlewares.RequirePermission(authz.InventoryRead))
	inventory.Get("/", inventoryHandler.List)
	inventory.Get("/summary", inventoryHandler.Summary)
	inventory.Get("/categories", inventoryHandler.Categories)
	inventory.Get("/:id<int>", inventoryHandler.Get)
	inventory.Post("/", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.Create)
	inventory.Put("/:id<int>", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.Update)
	inventory.Post("/:id<int>/adjust", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.Adjust)
	inventory.Delete("/:id<int>", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.Delete)

	users := api.Group("/users", middlewares.RequirePermission(authz.UsersManage))
	users.Get("/", userHandler.List)
	users.Put("/:id<int>/role", userHandler.ChangeRole)
}

func authConfig(deps Dependencies, svc *serviceSet) middlewares.AuthConfig {
	return middlewares.AuthConfig{
		Users:       svc.users,
		UserHeader:  deps.Config.AuthUserHeader,
		EmailHeader: deps.Config.AuthEmailHeader,
		NameHeader:  deps.Config.AuthNameHeader,
	}
}
