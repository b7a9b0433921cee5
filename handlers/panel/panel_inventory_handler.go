package handlers

import (
	"strconv"
	"strings"

	"planora.app/middlewares"
	"planora.app/models"
	"planora.app/pkg/flashmessages"
	"planora.app/pkg/queryparams"
	"planora.app/pkg/renderer"
	"planora.app/repositories"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PanelInventoryHandler struct {
	inventory services.IInventoryService
}

func NewPanelInventoryHandler(inventory services.IInventoryService) *PanelInventoryHandler {
	return &PanelInventoryHandler{inventory: inventory}
}

// ListItems handles GET /panel/inventory.
func (h *PanelInventoryHandler) ListItems(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	params := queryparams.DefaultListParams("name")
	params.OrderBy = "asc"
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("name")
	}
	filter := repositories.InventoryFilter{
		CategoryID:   uint(c.QueryInt("category_id")),
		LowStockOnly: c.QueryBool("low_stock"),
	}
	p := middlewares.CurrentPrincipal(c)

	data := fiber.Map{"Title": "Inventory", "Params": params, "Filter": filter}
	renderer.SetFlashMessages(data, flashData)
	page, err := h.inventory.List(c.UserContext(), p, params, filter)
	if err != nil {
		data[renderer.FlashErrorKeyView] = services.PublicMessage(err)
		page = &queryparams.PaginatedResult{Data: []models.InventoryItem{}}
	}
	data["Result"] = page
	if categories, err := h.inventory.Categories(c.UserContext(), p); err == nil {
		data["Categories"] = categories
	}
	return renderer.Render(c, "panel/inventory/list", panelLayout, data)
}

// CreateItem handles POST /panel/inventory/create.
func (h *PanelInventoryHandler) CreateItem(c *fiber.Ctx) error {
	in, err := inventoryInputFromForm(c)
	if err == nil {
		_, err = h.inventory.Create(c.UserContext(), middlewares.CurrentPrincipal(c), in)
	}
	return flashResult(c, err, "Item added.", "/panel/inventory")
}

// AdjustItem handles POST /panel/inventory/:id/adjust.
func (h *PanelInventoryHandler) AdjustItem(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/inventory", fiber.StatusSeeOther)
	}
	delta, err := strconv.Atoi(strings.TrimSpace(c.FormValue("delta")))
	if err != nil {
		return flashResult(c, services.Validation("adjustment must be a whole number"), "", "/panel/inventory")
	}
	_, err = h.inventory.AdjustQuantity(c.UserContext(), middlewares.CurrentPrincipal(c), id, delta)
	return flashResult(c, err, "Stock updated.", "/panel/inventory")
}

// DeleteItem handles POST /panel/inventory/:id/delete.
func (h *PanelInventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return c.Redirect("/panel/inventory", fiber.StatusSeeOther)
	}
	err := h.inventory.Delete(c.UserContext(), middlewares.CurrentPrincipal(c), id)
	return flashResult(c, err, "Item deleted.", "/panel/inventory")
}

func inventoryInputFromForm(c *fiber.Ctx) (services.InventoryInput, error) {
	in := services.InventoryInput{
		Name:        c.FormValue("name"),
		SKU:         c.FormValue("sku"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
	}
	var err error
	if in.Quantity, err = atoiOrZero(c.FormValue("quantity")); err != nil {
		return in, services.Validation("quantity must be a whole number")
	}
	if in.LowStockThreshold, err = atoiOrZero(c.FormValue("low_stock_threshold")); err != nil {
		return in, services.Validation("threshold must be a whole number")
	}
	if v := strings.TrimSpace(c.FormValue("unit_price")); v != "" {
		if in.UnitPrice, err = decimal.NewFromString(v); err != nil {
			return in, services.Validation("unit price must be a number")
		}
	}
	if v := strings.TrimSpace(c.FormValue("category_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return in, services.Validation("invalid category")
		}
		cid := uint(id)
		in.CategoryID = &cid
	}
	return in, nil
}

func atoiOrZero(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
