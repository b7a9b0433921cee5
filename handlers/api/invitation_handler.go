package handlers

import (
	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type InvitationHandler struct {
	invitations services.IInvitationService
}

func NewInvitationHandler(invitations services.IInvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// Send handles POST /api/events/:id/invitations.
func (h *InvitationHandler) Send(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	var req struct {
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	invitation, err := h.invitations.SendInvitation(c.UserContext(), middlewares.CurrentPrincipal(c), eventID, req.Email, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return created(c, invitation)
}

// ListForEvent handles GET /api/events/:id/invitations.
func (h *InvitationHandler) ListForEvent(c *fiber.Ctx) error {
	eventID, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid event id")
	}
	invitations, err := h.invitations.ListForEvent(c.UserContext(), middlewares.CurrentPrincipal(c), eventID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, invitations)
}

// ListReceived handles GET /api/invitations?status=PENDING.
func (h *InvitationHandler) ListReceived(c *fiber.Ctx) error {
	status := models.InvitationStatus(c.Query("status"))
	invitations, err := h.invitations.ListReceived(c.UserContext(), middlewares.CurrentPrincipal(c), status)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, invitations)
}

// Respond handles PUT /api/invitations/:id/response.
func (h *InvitationHandler) Respond(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid invitation id")
	}
	var req struct {
		Status models.InvitationStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	invitation, err := h.invitations.RespondInvitation(c.UserContext(), middlewares.CurrentPrincipal(c), id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, invitation)
}

// Cancel handles POST /api/invitations/:id/cancel.
func (h *InvitationHandler) Cancel(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid invitation id")
	}
	invitation, err := h.invitations.CancelInvitation(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, invitation)
}
