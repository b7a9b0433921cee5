package handlers

import (
	"fmt"
	"strconv"

	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/pkg/flashmessages"
	"planora.app/pkg/queryparams"
	"planora.app/pkg/renderer"
	"planora.app/repositories"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type PanelEventHandler struct {
	events      services.IEventService
	rsvps       services.IRsvpService
	invitations services.IInvitationService
	links       services.ILinkService
}

func NewPanelEventHandler(events services.IEventService, rsvps services.IRsvpService,
	invitations services.IInvitationService, links services.ILinkService) *PanelEventHandler {
	return &PanelEventHandler{events: events, rsvps: rsvps, invitations: invitations, links: links}
}

func eventPath(id uint) string {
	return fmt.Sprintf("/panel/events/%d", id)
}

// ListEvents handles GET /panel/events.
func (h *PanelEventHandler) ListEvents(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	params := queryparams.DefaultListParams("starts_at")
	params.OrderBy = "asc"
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("starts_at")
	}
	filter := repositories.EventFilter{IncludeCanceled: c.QueryBool("include_cancelled")}

	data := fiber.Map{"Title": "Events", "Params": params}
	renderer.SetFlashMessages(data, flashData)
	page, err := h.events.ListEvents(c.UserContext(), middlewares.CurrentPrincipal(c), params, filter)
	if err != nil {
		data[renderer.FlashErrorKeyView] = services.PublicMessage(err)
		page = &queryparams.PaginatedResult{Data: []models.Event{}}
	}
	data["Result"] = page
	return renderer.Render(c, "panel/events/list", panelLayout, data)
}

// ShowEvent handles GET /panel/events/:id.
func (h *PanelEventHandler) ShowEvent(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Invalid event id.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	p := middlewares.CurrentPrincipal(c)
	detail, err := h.events.GetEventDetail(c.UserContext(), p, id)
	if err != nil {
		return flashResult(c, err, "", "/panel/events")
	}
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": detail.Event.Title, "Detail": detail}
	renderer.SetFlashMessages(data, flashData)

	if rsvps, err := h.rsvps.ListForEvent(c.UserContext(), p, id); err == nil {
		data["Rsvps"] = rsvps
	}
	if detail.Capabilities.Invite || detail.Capabilities.Edit {
		if invitations, err := h.invitations.ListForEvent(c.UserContext(), p, id); err == nil {
			data["Invitations"] = invitations
		}
	}
	if detail.Capabilities.Edit {
		if links, err := h.links.ListForEvent(c.UserContext(), p, id); err == nil {
			data["Links"] = links
		}
	}
	return renderer.Render(c, "panel/events/show", panelLayout, data)
}

// ShowCreateEvent handles GET /panel/events/create.
func (h *PanelEventHandler) ShowCreateEvent(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":        "New event",
		"FormData":     flashmessages.GetFlashFormData(c),
		"DefaultColor": models.DefaultEventColor,
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "panel/events/create", panelLayout, data)
}

// CreateEvent handles POST /panel/events/create.
func (h *PanelEventHandler) CreateEvent(c *fiber.Ctx) error {
	in, err := eventInputFromForm(c)
	if err != nil {
		_ = flashmessages.SetFlashFormData(c, formSnapshot(c))
		return flashResult(c, err, "", "/panel/events/create")
	}
	event, err := h.events.CreateEvent(c.UserContext(), middlewares.CurrentPrincipal(c), in)
	if err != nil {
		_ = flashmessages.SetFlashFormData(c, formSnapshot(c))
		return flashResult(c, err, "", "/panel/events/create")
	}
	return flashResult(c, nil, "Event created.", eventPath(event.ID))
}

func eventInputFromForm(c *fiber.Ctx) (services.EventInput, error) {
	in := services.EventInput{
		Title:               c.FormValue("title"),
		Description:         c.FormValue("description"),
		Location:            c.FormValue("location"),
		Color:               c.FormValue("color"),
		AllDay:              formBool(c, "all_day"),
		GenerateDescription: formBool(c, "generate_description"),
	}
	var ok bool
	if in.StartsAt, ok = parseFormTime(c.FormValue("starts_at")); !ok {
		return in, services.Validation("start time is required")
	}
	if in.EndsAt, ok = parseFormTime(c.FormValue("ends_at")); !ok {
		return in, services.Validation("end time is required")
	}
	if v := c.FormValue("max_attendees"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, services.Validation("max attendees must be a number")
		}
		in.MaxAttendees = &n
	}
	return in, nil
}

func formSnapshot(c *fiber.Ctx) map[string]string {
	out := make(map[string]string)
	for _, key := range []string{"title", "description", "location", "starts_at", "ends_at", "color", "max_attendees"} {
		out[key] = c.FormValue(key)
	}
	return out
}

// UpdateRsvp handles POST /panel/events/:id/rsvp.
func (h *PanelEventHandler) UpdateRsvp(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	_, err := h.rsvps.UpdateRsvp(c.UserContext(), middlewares.CurrentPrincipal(c), id,
		models.RsvpStatus(c.FormValue("status")), c.FormValue("note"))
	return flashResult(c, err, "Your RSVP was saved.", eventPath(id))
}

// CancelEvent handles POST /panel/events/:id/cancel.
func (h *PanelEventHandler) CancelEvent(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	_, err := h.events.CancelEvent(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	return flashResult(c, err, "Event cancelled.", eventPath(id))
}

// DeleteEvent handles POST /panel/events/:id/delete.
func (h *PanelEventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	err := h.events.DeleteEvent(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	if err != nil {
		return flashResult(c, err, "", eventPath(id))
	}
	return flashResult(c, nil, "Event deleted.", "/panel/events")
}

// SendInvitation handles POST /panel/events/:id/invitations.
func (h *PanelEventHandler) SendInvitation(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	_, err := h.invitations.SendInvitation(c.UserContext(), middlewares.CurrentPrincipal(c), id,
		c.FormValue("email"), c.FormValue("message"))
	return flashResult(c, err, "Invitation sent.", eventPath(id))
}

// CreateLink handles POST /panel/events/:id/links.
func (h *PanelEventHandler) CreateLink(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	_, err := h.links.CreateLink(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	return flashResult(c, err, "Share link created.", eventPath(id))
}
