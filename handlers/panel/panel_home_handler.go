package handlers

import (
	"planora.app/middlewares"
	"planora.app/pkg/flashmessages"
	"planora.app/pkg/renderer"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type PanelHomeHandler struct {
	dashboard services.IDashboardService
}

func NewPanelHomeHandler(dashboard services.IDashboardService) *PanelHomeHandler {
	return &PanelHomeHandler{dashboard: dashboard}
}

// Home handles GET /panel/home.
func (h *PanelHomeHandler) Home(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Home"}
	renderer.SetFlashMessages(data, flashData)

	d, err := h.dashboard.Get(c.UserContext(), middlewares.CurrentPrincipal(c))
	if err != nil {
		data[renderer.FlashErrorKeyView] = services.PublicMessage(err)
	}
	data["Dashboard"] = d
	return renderer.Render(c, "panel/home", panelLayout, data)
}
