package controllers

import (
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	Users services.UserService
	Log   *zap.SugaredLogger
}

func NewAuthController(users services.UserService, log *zap.SugaredLogger) *AuthController {
	return &AuthController{Users: users, Log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	user, err := ac.Users.Register(c.UserContext(), req.Email, req.Nickname, req.Password)
	if err != nil {
		return respondError(c, ac.Log, err)
	}
	return utils.Created(c, user)
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	token, user, err := ac.Users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, ac.Log, err)
	}
	return utils.OK(c, fiber.Map{
		"token":      token,
		"token_type": "bearer",
		"user":       user,
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.Users.Me(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, ac.Log, err)
	}
	return utils.OK(c, user)
}
