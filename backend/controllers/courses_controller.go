package controllers

import (
	"akatsuki/backend/models"
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CoursesController handles the current user's enrollments and certificates.
type CoursesController struct {
	Courses services.CourseService
	Log     *zap.SugaredLogger
}

func NewCoursesController(courses services.CourseService, log *zap.SugaredLogger) *CoursesController {
	return &CoursesController{Courses: courses, Log: log}
}

type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

type UpdateCourseProgressRequest struct {
	Progress *int    `json:"progress" validate:"omitempty,min=0,max=100"`
	Status   *string `json:"status" validate:"omitempty,oneof=in_progress completed"`
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags courses
// @Accept json
// @Produce json
// @Param input body EnrollRequest true "Course to enroll in"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	view, err := cc.Courses.Enroll(c.UserContext(), currentUserID(c), req.CourseID)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.Created(c, view)
}

func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	list, err := cc.Courses.ListEnrollments(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, list)
}

func (cc *CoursesController) GetUserCourse(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	view, err := cc.Courses.GetEnrollment(c.UserContext(), currentUserID(c), courseID)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, view)
}

// UpdateCourseProgress godoc
// @Summary Update course progress
// @Description Sets progress percentage and/or status. Completing a course awards its XP once.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body UpdateCourseProgressRequest true "Progress data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/my/{id} [put]
func (cc *CoursesController) UpdateCourseProgress(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var req UpdateCourseProgressRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	upd := services.CourseUpdate{Progress: req.Progress}
	if req.Status != nil {
		status := models.CourseStatus(*req.Status)
		upd.Status = &status
	}

	view, err := cc.Courses.UpdateCourseProgress(c.UserContext(), currentUserID(c), courseID, upd)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, view)
}

// GetCertificate godoc
// @Summary Verify a certificate
// @Tags certificates
// @Produce json
// @Param code path string true "Verification code"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /certificates/{code} [get]
func (cc *CoursesController) GetCertificate(c *fiber.Ctx) error {
	view, err := cc.Courses.GetCertificate(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, view)
}
