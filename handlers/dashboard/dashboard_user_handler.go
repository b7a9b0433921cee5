// Package handlers serves the administration pages under /dashboard:
// user roles and tenant settings.
package handlers

import (
	"fmt"
	"strconv"

	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/pkg/flashmessages"
	"planora.app/pkg/queryparams"
	"planora.app/pkg/renderer"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

const dashboardLayout = "layouts/dashboard_layout"

type DashboardUserHandler struct {
	users    services.IUserService
	settings services.ISettingsService
}

func NewDashboardUserHandler(users services.IUserService, settings services.ISettingsService) *DashboardUserHandler {
	return &DashboardUserHandler{users: users, settings: settings}
}

// ListUsers handles GET /dashboard/users.
func (h *DashboardUserHandler) ListUsers(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	data := fiber.Map{"Title": "Users", "Params": params, "Roles": models.Roles()}
	renderer.SetFlashMessages(data, flashData)

	page, err := h.users.List(c.UserContext(), middlewares.CurrentPrincipal(c), params)
	if err != nil {
		data[renderer.FlashErrorKeyView] = services.PublicMessage(err)
		page = &queryparams.PaginatedResult{Data: []models.User{}}
	}
	data["Result"] = page
	return renderer.Render(c, "dashboard/users/list", dashboardLayout, data)
}

// ChangeRole handles POST /dashboard/users/:id/role.
func (h *DashboardUserHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Invalid user id.")
		return c.Redirect("/dashboard/users", fiber.StatusSeeOther)
	}
	user, err := h.users.ChangeRole(c.UserContext(), middlewares.CurrentPrincipal(c), uint(id), models.Role(c.FormValue("role")))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.PublicMessage(err))
		return c.Redirect("/dashboard/users", fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, fmt.Sprintf("%s is now %s.", user.Email, user.Role))
	return c.Redirect("/dashboard/users", fiber.StatusSeeOther)
}

// ShowSettings handles GET /dashboard/settings.
func (h *DashboardUserHandler) ShowSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.UserContext(), middlewares.CurrentPrincipal(c))
	data := fiber.Map{"Title": "Settings", "Settings": settings}
	if err != nil {
		data[renderer.FlashErrorKeyView] = services.PublicMessage(err)
	}
	return renderer.Render(c, "dashboard/settings", dashboardLayout, data)
}
