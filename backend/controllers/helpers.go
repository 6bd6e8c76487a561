package controllers

import (
	"errors"
	"strconv"

	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(utils.UserIDKey).(uint)
	return id
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// respondError maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without details.
func respondError(c *fiber.Ctx, log *zap.SugaredLogger, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return utils.Unauthorized(c, err.Error())
	}

	log.Errorw("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"user_id", currentUserID(c),
		"error", err,
	)
	return utils.InternalServerError(c, "Internal server error")
}
