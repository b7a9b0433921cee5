package handlers

import (
	"planora.app/middlewares"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	inventory services.IInventoryService
}

func NewInventoryHandler(inventory services.IInventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("name")
	params.OrderBy = "asc"
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	filter := repositories.InventoryFilter{
		CategoryID:   uint(c.QueryInt("category_id")),
		LowStockOnly: c.QueryBool("low_stock"),
	}
	page, err := h.inventory.List(c.UserContext(), middlewares.CurrentPrincipal(c), params, filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, page)
}

func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid item id")
	}
	item, err := h.inventory.Get(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, item)
}

func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in services.InventoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.inventory.Create(c.UserContext(), middlewares.CurrentPrincipal(c), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, item)
}

func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid item id")
	}
	var in services.InventoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.inventory.Update(c.UserContext(), middlewares.CurrentPrincipal(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, item)
}

// Adjust handles POST /api/inventory/:id/adjust with {"delta": -3}.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid item id")
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.inventory.AdjustQuantity(c.UserContext(), middlewares.CurrentPrincipal(c), id, req.Delta)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, item)
}

func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid item id")
	}
	if err := h.inventory.Delete(c.UserContext(), middlewares.CurrentPrincipal(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"deleted": id})
}

func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.inventory.Summary(c.UserContext(), middlewares.CurrentPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, summary)
}

func (h *InventoryHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.inventory.Categories(c.UserContext(), middlewares.CurrentPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, categories)
}
