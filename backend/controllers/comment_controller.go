package controllers

import (
	"context"

	"akatsuki/backend/services"
	"akatsuki/backend/store"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CommentsController covers lesson comments, comment likes and lesson reactions.
type CommentsController struct {
	Comments  services.CommentService
	Reactions services.ReactionService
	Log       *zap.SugaredLogger
}

func NewCommentsController(comments services.CommentService, reactions services.ReactionService, log *zap.SugaredLogger) *CommentsController {
	return &CommentsController{Comments: comments, Reactions: reactions, Log: log}
}

// AddCommentRequest defines the request body for adding a comment
type AddCommentRequest struct {
	Text     string `json:"text" validate:"required,max=5000" example:"Great lesson!"`
	ParentID *uint  `json:"parent_id" validate:"omitempty,gt=0"`
}

// AddLessonComment godoc
// @Summary Add comment to lesson
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param input body AddCommentRequest true "Comment data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/comments [post]
func (cc *CommentsController) AddLessonComment(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var req AddCommentRequest
	if ok, err := utils.ParseAndValidate(c, &req); !ok {
		return err
	}

	comment, err := cc.Comments.AddComment(c.UserContext(), currentUserID(c), lessonID, req.Text, req.ParentID)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.Created(c, comment)
}

func (cc *CommentsController) GetLessonComments(c *fiber.Ctx) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	comments, err := cc.Comments.ListComments(c.UserContext(), lessonID)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, comments)
}

func (cc *CommentsController) LikeComment(c *fiber.Ctx) error {
	return cc.commentLike(c, cc.Comments.LikeComment)
}

func (cc *CommentsController) UnlikeComment(c *fiber.Ctx) error {
	return cc.commentLike(c, cc.Comments.UnlikeComment)
}

func (cc *CommentsController) commentLike(c *fiber.Ctx, op func(ctx context.Context, userID, commentID uint) (int64, error)) error {
	commentID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	count, err := op(c.UserContext(), currentUserID(c), commentID)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, fiber.Map{"comment_id": commentID, "likes_count": count})
}

func (cc *CommentsController) LikeLesson(c *fiber.Ctx) error {
	return cc.react(c, cc.Reactions.LikeLesson)
}

func (cc *CommentsController) DislikeLesson(c *fiber.Ctx) error {
	return cc.react(c, cc.Reactions.DislikeLesson)
}

// RemoveLessonReaction serves both DELETE /like and DELETE /dislike; either one
// clears whatever reaction the user has.
func (cc *CommentsController) RemoveLessonReaction(c *fiber.Ctx) error {
	return cc.react(c, cc.Reactions.RemoveLessonReaction)
}

func (cc *CommentsController) react(c *fiber.Ctx, op func(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error)) error {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	counts, err := op(c.UserContext(), currentUserID(c), lessonID)
	if err != nil {
		return respondError(c, cc.Log, err)
	}
	return utils.OK(c, counts)
}
