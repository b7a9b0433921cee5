package handlers

import (
	"strconv"
	"strings"
	"time"

	"planora.app/configs/configslog"
	"planora.app/pkg/flashmessages"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	panelLayout    = "layouts/panel_layout"
	formTimeLayout = "2006-01-02T15:04"
	formDateLayout = "2006-01-02"
)

// flashResult stores a success or error message and redirects to path.
// Infrastructure errors are logged and shown with a generic message.
func flashResult(c *fiber.Ctx, err error, success, path string) error {
	if err != nil {
		if !services.IsDomainError(err) {
			configslog.Log.Error("Panel request failed",
				zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.PublicMessage(err))
		return c.Redirect(path, fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, success)
	return c.Redirect(path, fiber.StatusSeeOther)
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseFormTime accepts datetime-local and date inputs, interpreted as UTC.
func parseFormTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{formTimeLayout, formDateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func formBool(c *fiber.Ctx, key string) bool {
	switch c.FormValue(key) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
