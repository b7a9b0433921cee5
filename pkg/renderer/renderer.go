package renderer

import (
	"planora.app/configs/configslog"
	"planora.app/pkg/flashmessages"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	FlashSuccessKeyView = "Success"
	FlashErrorKeyView   = "Error"
)

// Render renders template inside layout. Locals set by middlewares
// (principal, permissions, csrf) are merged into data.
func Render(c *fiber.Ctx, template, layout string, data fiber.Map, status ...int) error {
	if data == nil {
		data = fiber.Map{}
	}
	for _, key := range []string{"UserName", "Permissions", "CsrfToken"} {
		if _, exists := data[key]; !exists {
			if v := c.Locals(key); v != nil {
				data[key] = v
			}
		}
	}
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	c.Status(code)
	if err := c.Render(template, data, layout); err != nil {
		configslog.Log.Error("Template could not be rendered", zap.String("template", template), zap.Error(err))
		return err
	}
	return nil
}

// SetFlashMessages copies pending flash messages into the view data.
func SetFlashMessages(data fiber.Map, flash flashmessages.FlashMessages) {
	if flash.Success != "" {
		data[FlashSuccessKeyView] = flash.Success
	}
	if flash.Error != "" {
		data[FlashErrorKeyView] = flash.Error
	}
}
