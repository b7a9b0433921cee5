package handlers

import (
	"planora.app/utils"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler ends the local session. Signing out of the upstream
// identity provider is the auth proxy's job.
type SessionHandler struct {
	signOutURL string
}

func NewSessionHandler(signOutURL string) *SessionHandler {
	if signOutURL == "" {
		signOutURL = "/"
	}
	return &SessionHandler{signOutURL: signOutURL}
}

// Logout handles GET and POST /auth/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if sess, err := utils.SessionStart(c); err == nil {
		_ = sess.Destroy()
	}
	return c.Redirect(h.signOutURL, fiber.StatusSeeOther)
}
