package routes

import (
	"planora.app/authz"
	panel_handlers "planora.app/handlers/panel"
	"planora.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes defines the server-rendered pages under /panel.
func registerPanelRoutes(app *fiber.App, deps Dependencies, svc *serviceSet) {
	homeHandler := panel_handlers.NewPanelHomeHandler(svc.dashboard)
	eventHandler := panel_handlers.NewPanelEventHandler(svc.events, svc.rsvps, svc.invitations, svc.links)
	invitationHandler := panel_handlers.NewPanelInvitationHandler(svc.invitations)
	inventoryHandler := panel_handlers.NewPanelInventoryHandler(svc.inventory)

	panelGroup := app.Group("/panel")
	panelGroup.Use(middlewares.Auth(authConfig(deps, svc)))

	panelGroup.Get("/home", middlewares.RequirePermission(authz.DashboardRead), homeHandler.Home)

	panelGroup.Get("/events", middlewares.RequirePermission(authz.EventsRead), eventHandler.ListEvents)
	panelGroup.Get("/events/create", middlewares.RequirePermission(authz.EventsCreate), eventHandler.ShowCreateEvent)
	panelGroup.Post("/events/create", middlewares.RequirePermission(authz.EventsCreate), eventHandler.CreateEvent)
	panelGroup.Get("/events/:id<int>", middlewares.RequirePermission(authz.EventsRead), eventHandler.ShowEvent)
	panelGroup.Post("/events/:id<int>/rsvp", eventHandler.UpdateRsvp)
	panelGroup.Post("/events/:id<int>/cancel", eventHandler.CancelEvent)
	panelGroup.Post("/events/:id<int>/delete", eventHandler.DeleteEvent)
	panelGroup.Post("/events/:id<int>/invitations", middlewares.RequirePermission(authz.InvitationsSend), eventHandler.SendInvitation)
	panelGroup.Post("/events/:id<int>/links", eventHandler.CreateLink)

	panelGroup.Get("/invitations", invitationHandler.ListReceived)
	panelGroup.Post("/invitations/:id<int>/respond", invitationHandler.Respond)
	panelGroup.Post("/invitations/:id<int>/cancel", invitationHandler.Cancel)

	panelGroup.Get("/inventory", middlewares.RequirePermission(authz.InventoryRead), inventoryHandler.ListItems)
	panelGroup.Post("/inventory/create", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.CreateItem)
	panelGroup.Post("/inventory/:id<int>/adjust", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.AdjustItem)
	panelGroup.Post("/inventory/:id<int>/delete", middlewares.RequirePermission(authz.InventoryManage), inventoryHandler.DeleteItem)
}
