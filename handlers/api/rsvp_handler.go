package handlers

import (
	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type RsvpHandler struct {
	rsvps services.IRsvpService
}

func NewRsvpHandler(rsvps services.IRsvpService) *RsvpHandler {
	return &RsvpHandler{rsvps: rsvps}
}

type rsvpRequest struct {
	Status models.RsvpStatus `json:"status"`
	Note   string            `json:"note"`
}

// Update handles PUT /api/events/:id/rsvp.
func (h *RsvpHandler) Update(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	var req rsvpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	rsvp, err := h.rsvps.UpdateRsvp(c.UserContext(), middlewares.CurrentPrincipal(c), eventID, req.Status, req.Note)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rsvp)
}

// List handles GET /api/events/:id/rsvps.
func (h *RsvpHandler) List(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	rsvps, err := h.rsvps.ListForEvent(c.UserContext(), middlewares.CurrentPrincipal(c), eventID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rsvps)
}
