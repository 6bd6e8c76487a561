package controllers

import (
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserController struct {
	Users services.UserService
	Log   *zap.SugaredLogger
}

func NewUserController(users services.UserService, log *zap.SugaredLogger) *UserController {
	return &UserController{Users: users, Log: log}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the current user with XP and enrollments
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	profile, err := uc.Users.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, uc.Log, err)
	}
	return utils.OK(c, profile)
}
