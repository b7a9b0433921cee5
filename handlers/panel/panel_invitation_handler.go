package handlers

import (
	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/pkg/flashmessages"
	"planora.app/pkg/renderer"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type PanelInvitationHandler struct {
	invitations services.IInvitationService
}

func NewPanelInvitationHandler(invitations services.IInvitationService) *PanelInvitationHandler {
	return &PanelInvitationHandler{invitations: invitations}
}

// ListReceived handles GET /panel/invitations.
func (h *PanelInvitationHandler) ListReceived(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	status := models.InvitationStatus(c.Query("status"))
	data := fiber.Map{"Title": "Invitations", "Status": status}
	renderer.SetFlashMessages(data, flashData)

	invitations, err := h.invitations.ListReceived(c.UserContext(), middlewares.CurrentPrincipal(c), status)
	if err != nil {
		data[renderer.FlashErrorKeyView] = services.PublicMessage(err)
	}
	data["Invitations"] = invitations
	return renderer.Render(c, "panel/invitations/list", panelLayout, data)
}

// Respond handles POST /panel/invitations/:id/respond.
func (h *PanelInvitationHandler) Respond(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/invitations", fiber.StatusSeeOther)
	}
	_, err := h.invitations.RespondInvitation(c.UserContext(), middlewares.CurrentPrincipal(c), id,
		models.InvitationStatus(c.FormValue("status")))
	return flashResult(c, err, "Response saved.", "/panel/invitations")
}

// Cancel handles POST /panel/invitations/:id/cancel; it returns to the event page.
func (h *PanelInvitationHandler) Cancel(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	invitation, err := h.invitations.CancelInvitation(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	back := "/panel/events"
	if err == nil {
		back = eventPath(invitation.EventID)
	}
	return flashResult(c, err, "Invitation cancelled.", back)
}
