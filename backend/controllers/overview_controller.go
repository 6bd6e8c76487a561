package controllers

import (
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OverviewController is the read-only course catalog.
type OverviewController struct {
	Courses services.CourseService
	Log     *zap.SugaredLogger
}

func NewOverviewController(courses services.CourseService, log *zap.SugaredLogger) *OverviewController {
	return &OverviewController{Courses: courses, Log: log}
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (oc *OverviewController) ListCourses(c *fiber.Ctx) error {
	page, err := oc.Courses.ListCourses(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, oc.Log, err)
	}
	return utils.Paged(c, page.Items, utils.PageMeta{
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// GetCourse godoc
// @Summary Course details with modules and lessons
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (oc *OverviewController) GetCourse(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}
	detail, err := oc.Courses.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, oc.Log, err)
	}
	return utils.OK(c, detail)
}
