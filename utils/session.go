package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	SessionStoreLocalsKey = "session_store"
	SessionUserIDKey      = "user_id"
)

var (
	ErrSessionStoreMissing = errors.New("session store is not configured")
	ErrUserIDNotInSession  = errors.New("user id not found in session")
)

// SessionStart returns the session of the current request.
func SessionStart(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals(SessionStoreLocalsKey).(*session.Store)
	if !ok || store == nil {
		return nil, ErrSessionStoreMissing
	}
	return store.Get(c)
}

// GetUserIDFromSession reads the signed-in user's id.
func GetUserIDFromSession(sess *session.Session) (uint, error) {
	switch v := sess.Get(SessionUserIDKey).(type) {
	case uint:
		if v > 0 {
			return v, nil
		}
	case int:
		if v > 0 {
			return uint(v), nil
		}
	case float64:
		if v > 0 {
			return uint(v), nil
		}
	}
	return 0, ErrUserIDNotInSession
}

// SetUserIDInSession stores the user id and saves the session.
func SetUserIDInSession(sess *session.Session, userID uint) error {
	sess.Set(SessionUserIDKey, userID)
	return sess.Save()
}
