package handlers

import (
	"planora.app/authz"
	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users services.IUserService
}

func NewUserHandler(users services.IUserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /api/me: the caller and what their role allows.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	p := middlewares.CurrentPrincipal(c)
	user, err := h.users.GetByID(c.UserContext(), p.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"user": user, "permissions": authz.Permissions(p.Role)})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	page, err := h.users.List(c.UserContext(), middlewares.CurrentPrincipal(c), params)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, page)
}

// ChangeRole handles PUT /api/users/:id/role.
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid user id")
	}
	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.users.ChangeRole(c.UserContext(), middlewares.CurrentPrincipal(c), id, req.Role)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, user)
}
