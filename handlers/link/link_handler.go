// Package handlers serves pages that need no sign-in: shared events and health.
package handlers

import (
	"planora.app/configs/configslog"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PublicLinkHandler struct {
	links services.ILinkService
}

func NewPublicLinkHandler(links services.ILinkService) *PublicLinkHandler {
	return &PublicLinkHandler{links: links}
}

// ShowEvent handles GET /e/:key.
func (h *PublicLinkHandler) ShowEvent(c *fiber.Ctx) error {
	event, err := h.links.ResolvePublic(c.UserContext(), c.Params("key"))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Event not found"}, "layouts/error_layout")
		}
		configslog.Log.Error("Public link could not be resolved", zap.String("key", c.Params("key")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{"Title": "Error"}, "layouts/error_layout")
	}
	return c.Render("public/event", fiber.Map{"Title": event.Title, "Event": event}, "layouts/public_layout")
}

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		configslog.Log.Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
