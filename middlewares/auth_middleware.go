package middlewares

import (
	"strings"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/result"
	"planora.app/services"
	"planora.app/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// PrincipalLocalsKey holds the authz.Principal of the current request.
	PrincipalLocalsKey = "principal"
	sessionExternalKey = "external_id"
)

// AuthConfig names the headers set by the upstream auth proxy.
type AuthConfig struct {
	Users       services.IUserService
	UserHeader  string
	EmailHeader string
	NameHeader  string
}

// Auth resolves the caller to a user. The proxy identity is bound to the
// session on first sight; the role is reloaded from the database on every
// request so role changes apply immediately.
func Auth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := utils.SessionStart(c)
		if err != nil {
			configslog.Log.Error("Session could not be started", zap.Error(err))
			return unauthorized(c)
		}

		externalID := strings.TrimSpace(c.Get(cfg.UserHeader))
		userID, idErr := utils.GetUserIDFromSession(sess)
		boundTo, _ := sess.Get(sessionExternalKey).(string)

		if idErr != nil || (externalID != "" && externalID != boundTo) {
			if externalID == "" {
				return unauthorized(c)
			}
			user, err := cfg.Users.EnsureUser(c.UserContext(), services.Identity{
				ExternalID: externalID,
				Email:      c.Get(cfg.EmailHeader),
				Name:       c.Get(cfg.NameHeader),
			})
			if err != nil {
				configslog.Log.Warn("Sign-in identity rejected", zap.String("external_id", externalID), zap.Error(err))
				return unauthorized(c)
			}
			userID = user.ID
			sess.Set(sessionExternalKey, externalID)
			if err := utils.SetUserIDInSession(sess, userID); err != nil {
				configslog.Log.Error("Session could not be saved", zap.Error(err))
			}
		}

		user, err := cfg.Users.GetByID(c.UserContext(), userID)
		if err != nil {
			if services.KindOf(err) == services.KindNotFound {
				_ = sess.Destroy()
				return unauthorized(c)
			}
			configslog.Log.Error("Signed-in user could not be loaded", zap.Uint("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(result.Fail(services.PublicMessage(err)))
		}
		principal := authz.Principal{UserID: user.ID, Role: user.Role}

		c.Locals("UserName", user.Name)
		c.Locals(PrincipalLocalsKey, principal)
		c.Locals("Permissions", permissionView(principal.Role))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(result.Fail("sign-in required"))
	}
	return c.Status(fiber.StatusUnauthorized).Render("errors/401", fiber.Map{"Title": "Sign-in required"}, "layouts/error_layout")
}

// wantsJSON reports whether the request targets the API or prefers JSON.
func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api") {
		return true
	}
	return c.Accepts("text/html", "application/json") == "application/json"
}

// permissionView flattens the permission set for templates, which index by plain strings.
func permissionView(role models.Role) map[string]bool {
	out := make(map[string]bool)
	for action, ok := range authz.Permissions(role) {
		out[string(action)] = ok
	}
	return out
}

// CurrentPrincipal returns the principal resolved by Auth, or the zero
// principal (which is denied everything).
func CurrentPrincipal(c *fiber.Ctx) authz.Principal {
	p, _ := c.Locals(PrincipalLocalsKey).(authz.Principal)
	return p
}
