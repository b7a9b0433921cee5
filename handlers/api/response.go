// Package handlers serves the JSON API. Every response is a result.Result.
package handlers

import (
	"strconv"

	"planora.app/configs/configslog"
	"planora.app/pkg/result"
	"planora.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindPermissionDenied:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindValidation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func ok(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(result.OK(data))
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(result.OK(data))
}

// fail writes err as a failed Result. Infrastructure errors are logged and
// replaced by a generic retry message.
func fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		configslog.Log.Error("API request failed",
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(result.Fail(services.PublicMessage(err)))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(result.Fail(msg))
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
