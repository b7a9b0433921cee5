// Package flashmessages keeps one-shot messages in the session across a redirect.
package flashmessages

import (
	"encoding/json"

	"planora.app/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	FlashSuccessKey = "flash_success"
	FlashErrorKey   = "flash_error"
	flashFormKey    = "flash_form"
)

type FlashMessages struct {
	Success string
	Error   string
}

// SetFlashMessage stores msg under key until the next GetFlashMessages.
func SetFlashMessage(c *fiber.Ctx, key, msg string) error {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return err
	}
	sess.Set(key, msg)
	return sess.Save()
}

// GetFlashMessages reads and clears pending messages.
func GetFlashMessages(c *fiber.Ctx) (FlashMessages, error) {
	var out FlashMessages
	sess, err := utils.SessionStart(c)
	if err != nil {
		return out, err
	}
	if v, ok := sess.Get(FlashSuccessKey).(string); ok {
		out.Success = v
		sess.Delete(FlashSuccessKey)
	}
	if v, ok := sess.Get(FlashErrorKey).(string); ok {
		out.Error = v
		sess.Delete(FlashErrorKey)
	}
	return out, sess.Save()
}

// SetFlashFormData keeps submitted form values so a failed form can be refilled.
func SetFlashFormData(c *fiber.Ctx, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	sess, err := utils.SessionStart(c)
	if err != nil {
		return err
	}
	sess.Set(flashFormKey, string(b))
	return sess.Save()
}

// GetFlashFormData returns and clears the stored form values.
func GetFlashFormData(c *fiber.Ctx) map[string]any {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return nil
	}
	raw, ok := sess.Get(flashFormKey).(string)
	if !ok {
		return nil
	}
	sess.Delete(flashFormKey)
	_ = sess.Save()
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}
	return data
}
