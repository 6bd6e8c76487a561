package controllers

import (
	"akatsuki/backend/models"
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProgressController struct {
	Progress services.ProgressService
	Log      *zap.SugaredLogger
}

func NewProgressController(progress services.ProgressService, log *zap.SugaredLogger) *ProgressController {
	return &ProgressController{Progress: progress, Log: log}
}

type SectionProgressRequest struct {
	Section   string `json:"section" validate:"required,oneof=intro video practice"`
	Completed bool   `json:"completed"`
}

type CheckCodeRequest struct {
	Code string `json:"code"`
}

// GetLesson godoc
// @Summary Get lesson with progress
// @Description Returns lesson content, quiz questions without answers, and the user's progress
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (pc *ProgressController) GetLesson(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	view, err := pc.Progress.GetLessonWithProgress(c.UserContext(), currentUserID(c), lessonID)
	if err != nil {
		return respondError(c, pc.Log, err)
	}
	return utils.OK(c, view)
}

// UpdateProgress godoc
// @Summary Mark a lesson section complete
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param input body SectionProgressRequest true "Section"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/progress [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var req SectionProgressRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	progress, err := pc.Progress.UpdateSectionProgress(c.UserContext(), currentUserID(c), lessonID, models.Section(req.Section), req.Completed)
	if err != nil {
		return respondError(c, pc.Log, err)
	}
	return utils.OK(c, progress)
}

func (pc *ProgressController) CheckCode(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var req CheckCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	result, err := pc.Progress.CheckPracticeCode(c.UserContext(), currentUserID(c), lessonID, req.Code)
	if err != nil {
		return respondError(c, pc.Log, err)
	}
	return utils.OK(c, result)
}
