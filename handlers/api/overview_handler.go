package handlers

import (
	"planora.app/middlewares"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

// OverviewHandler serves the read-mostly endpoints: dashboard, activity,
// settings and share links.
type OverviewHandler struct {
	dashboard services.IDashboardService
	activity  services.IActivityService
	settings  services.ISettingsService
	links     services.ILinkService
}

func NewOverviewHandler(dashboard services.IDashboardService, activity services.IActivityService,
	settings services.ISettingsService, links services.ILinkService) *OverviewHandler {
	return &OverviewHandler{dashboard: dashboard, activity: activity, settings: settings, links: links}
}

func (h *OverviewHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.dashboard.Get(c.UserContext(), middlewares.CurrentPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, d)
}

func (h *OverviewHandler) RecentActivity(c *fiber.Ctx) error {
	activities, err := h.activity.ListRecent(c.UserContext(), middlewares.CurrentPrincipal(c), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, activities)
}

func (h *OverviewHandler) EventActivity(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	activities, err := h.activity.ListForEvent(c.UserContext(), middlewares.CurrentPrincipal(c), eventID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, activities)
}

func (h *OverviewHandler) Settings(c *fiber.Ctx) error {
	s, err := h.settings.Get(c.UserContext(), middlewares.CurrentPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}

// CreateLink handles POST /api/events/:id/links.
func (h *OverviewHandler) CreateLink(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	link, err := h.links.CreateLink(c.UserContext(), middlewares.CurrentPrincipal(c), eventID)
	if err != nil {
		return fail(c, err)
	}
	return created(c, link)
}

func (h *OverviewHandler) ListLinks(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	links, err := h.links.ListForEvent(c.UserContext(), middlewares.CurrentPrincipal(c), eventID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, links)
}

func (h *OverviewHandler) DeleteLink(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	linkID, valid := paramID(c, "linkID")
	if !valid {
		return badRequest(c, "invalid link id")
	}
	if err := h.links.DeleteLink(c.UserContext(), middlewares.CurrentPrincipal(c), eventID, linkID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"deleted": linkID})
}
