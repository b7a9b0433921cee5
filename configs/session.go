package configs

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

// SetupSession creates the cookie-backed session store used by the panel.
func SetupSession(ttl time.Duration, secure bool) *session.Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:planora_session",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}
