package routes

import (
	"errors"
	"strings"

	"planora.app/ai"
	"planora.app/configs"
	"planora.app/configs/configslog"
	"planora.app/pkg/result"
	"planora.app/services"
	"planora.app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the long-lived objects every route group draws from.
type Dependencies struct {
	DB       *gorm.DB
	Config   *configs.AppConfig
	AI       ai.Completer
	Sessions *session.Store
}

// serviceSet is built once per application so handlers share service instances.
type serviceSet struct {
	users       services.IUserService
	events      services.IEventService
	rsvps       services.IRsvpService
	invitations services.IInvitationService
	activity    services.IActivityService
	links       services.ILinkService
	inventory   services.IInventoryService
	enrichment  services.IEnrichmentService
	dashboard   services.IDashboardService
	settings    services.ISettingsService
}

func newServiceSet(deps Dependencies) *serviceSet {
	enrichment := services.NewEnrichmentService(deps.DB, deps.AI)
	return &serviceSet{
		users:       services.NewUserService(deps.DB, deps.Config.DefaultRole),
		events:      services.NewEventService(deps.DB, enrichment),
		rsvps:       services.NewRsvpService(deps.DB),
		invitations: services.NewInvitationService(deps.DB),
		activity:    services.NewActivityService(deps.DB),
		links:       services.NewLinkService(deps.DB),
		inventory:   services.NewInventoryService(deps.DB, enrichment),
		enrichment:  enrichment,
		dashboard:   services.NewDashboardService(deps.DB),
		settings:    services.NewSettingsService(deps.Config),
	}
}

// SetupRoutes registers global middleware and every route group.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Sessions == nil {
		deps.Sessions = configs.SetupSession(deps.Config.SessionTTL, deps.Config.IsProduction())
	}
	svc := newServiceSet(deps)

	app.Use(recoverMiddleware.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(utils.SessionStoreLocalsKey, deps.Sessions)
		return c.Next()
	})

	registerPublicRoutes(app, deps, svc)
	registerAPIRoutes(app, deps, svc)
	registerPanelRoutes(app, deps, svc)
	registerDashboardRoutes(app, deps, svc)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/panel/home", fiber.StatusFound)
	})
	app.Use(notFoundHandler)

	configslog.SLog.Info("Routes registered")
}

func notFoundHandler(c *fiber.Ctx) error {
	if isAPI(c) || c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(result.Fail("resource not found"))
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page not found"}, "layouts/error_layout")
}

// ErrorHandler answers errors that escaped a handler. API clients get the
// Result envelope; browsers get an error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := "something went wrong, please retry"
	if code < fiber.StatusInternalServerError && fe != nil {
		msg = fe.Message
	} else {
		configslog.Log.Error("Unhandled request error",
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	}
	if isAPI(c) {
		return c.Status(code).JSON(result.Fail(msg))
	}
	template := "errors/500"
	if code == fiber.StatusNotFound {
		template = "errors/404"
	}
	if renderErr := c.Status(code).Render(template, fiber.Map{"Title": msg}, "layouts/error_layout"); renderErr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api")
}
