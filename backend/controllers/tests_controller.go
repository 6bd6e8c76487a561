package controllers

import (
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TestsController struct {
	Quiz services.QuizService
	Log  *zap.SugaredLogger
}

func NewTestsController(quiz services.QuizService, log *zap.SugaredLogger) *TestsController {
	return &TestsController{Quiz: quiz, Log: log}
}

// SubmitTestRequest maps question id to the selected option id.
type SubmitTestRequest struct {
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

// CheckTest godoc
// @Summary Submit quiz answers
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param input body SubmitTestRequest true "Answers"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/check-test [post]
func (tc *TestsController) CheckTest(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var req SubmitTestRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	answers, err := services.ParseAnswers(req.Answers)
	if err != nil {
		return respondError(c, tc.Log, err)
	}

	result, err := tc.Quiz.SubmitQuiz(c.UserContext(), currentUserID(c), lessonID, answers)
	if err != nil {
		return respondError(c, tc.Log, err)
	}
	return utils.OK(c, result)
}
