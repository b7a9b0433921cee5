package handlers

import (
	"time"

	"planora.app/middlewares"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type EventHandler struct {
	events     services.IEventService
	enrichment services.IEnrichmentService
}

func NewEventHandler(events services.IEventService, enrichment services.IEnrichmentService) *EventHandler {
	return &EventHandler{events: events, enrichment: enrichment}
}

// List handles GET /api/events.
func (h *EventHandler) List(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("starts_at")
	params.OrderBy = "asc"
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	filter := repositories.EventFilter{IncludeCanceled: c.QueryBool("include_cancelled")}
	if c.QueryBool("mine") {
		filter.OwnerID = middlewares.CurrentPrincipal(c).UserID
	}
	page, err := h.events.ListEvents(c.UserContext(), middlewares.CurrentPrincipal(c), params, filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, page)
}

// Calendar handles GET /api/calendar?from=...&to=... (RFC 3339).
func (h *EventHandler) Calendar(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return badRequest(c, "from must be an RFC 3339 timestamp")
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return badRequest(c, "to must be an RFC 3339 timestamp")
	}
	events, err := h.events.ListCalendar(c.UserContext(), middlewares.CurrentPrincipal(c), from, to)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, events)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	detail, err := h.events.GetEventDetail(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, detail)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var in services.EventInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	event, err := h.events.CreateEvent(c.UserContext(), middlewares.CurrentPrincipal(c), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	var in services.EventInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	event, err := h.events.UpdateEvent(c.UserContext(), middlewares.CurrentPrincipal(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, event)
}

func (h *EventHandler) Cancel(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	event, err := h.events.CancelEvent(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, event)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	if err := h.events.DeleteEvent(c.UserContext(), middlewares.CurrentPrincipal(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"deleted": id})
}

// Parse handles POST /api/events/parse. It never fails because of the AI
// provider: an unavailable parser yields a null draft.
func (h *EventHandler) Parse(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	draft := h.enrichment.ParseEvent(c.UserContext(), body.Text)
	return ok(c, fiber.Map{"draft": draft})
}

// Conflicts handles GET /api/events/conflicts?starts_at=...&ends_at=...&exclude=ID.
func (h *EventHandler) Conflicts(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("starts_at"))
	if err != nil {
		return badRequest(c, "starts_at must be an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, c.Query("ends_at"))
	if err != nil {
		return badRequest(c, "ends_at must be an RFC 3339 timestamp")
	}
	exclude := uint(c.QueryInt("exclude"))
	conflicts := h.enrichment.DetectConflicts(c.UserContext(), middlewares.CurrentPrincipal(c), start, end, exclude)
	return ok(c, conflicts)
}
