package services

import (
	"context"
	"fmt"
	"strings"

	"akatsuki/backend/models"
)

type CommentService interface {
	AddComment(ctx context.Context, userID, lessonID uint, text string, parentID *uint) (*CommentView, error)
	ListComments(ctx context.Context, lessonID uint) ([]*CommentView, error)
	LikeComment(ctx context.Context, userID, commentID uint) (int64, error)
	UnlikeComment(ctx context.Context, userID, commentID uint) (int64, error)
}

type commentService struct {
	Deps
}

func NewCommentService(d Deps) CommentService {
	return &commentService{Deps: d}
}

const unknownNickname = "User"

// AddComment attaches replies to the thread root, keeping one level of nesting.
func (s *commentService) AddComment(ctx context.Context, userID, lessonID uint, text string, parentID *uint) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	lesson, err := s.Store.Catalog.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
	}

	if parentID != nil {
		parent, err := s.Store.Comments.GetByID(ctx, nil, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.LessonID != lessonID {
			return nil, fmt.Errorf("%w: parent comment %d not found in lesson %d", ErrValidation, *parentID, lessonID)
		}
		if parent.ParentID != nil {
			root := *parent.ParentID
			parentID = &root
		}
	}

	comment := &models.LessonComment{
		LessonID: lessonID,
		UserID:   userID,
		Text:     text,
		ParentID: parentID,
	}
	if err := s.Store.Comments.Create(ctx, nil, comment); err != nil {
		return nil, err
	}

	author := CommentAuthor{ID: userID, Nickname: unknownNickname}
	if u, err := s.Store.Users.GetByID(ctx, nil, userID); err != nil {
		return nil, err
	} else if u != nil {
		author.Nickname = u.Nickname
	}

	return &CommentView{
		ID:        comment.ID,
		Text:      comment.Text,
		User:      author,
		CreatedAt: comment.CreatedAt,
		ParentID:  comment.ParentID,
	}, nil
}

// ListComments returns top-level comments newest first, each with its replies
// oldest first.
func (s *commentService) ListComments(ctx context.Context, lessonID uint) ([]*CommentView, error) {
	lesson, err := s.Store.Catalog.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
	}

	comments, err := s.Store.Comments.ListByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	userIDs := make([]uint, 0, len(comments))
	seenUser := make(map[uint]bool)
	for _, c := range comments {
		ids = append(ids, c.ID)
		if !seenUser[c.UserID] {
			seenUser[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}

	likes, err := s.Store.Comments.LikeCounts(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.Store.Users.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, err
	}
	nicknames := make(map[uint]string, len(users))
	for _, u := range users {
		nicknames[u.ID] = u.Nickname
	}

	byID := make(map[uint]*CommentView, len(comments))
	roots := make([]*CommentView, 0)
	// comments arrive oldest first, so appending keeps replies in order
	for _, c := range comments {
		nick, ok := nicknames[c.UserID]
		if !ok {
			nick = unknownNickname
		}
		view := &CommentView{
			ID:         c.ID,
			Text:       c.Text,
			User:       CommentAuthor{ID: c.UserID, Nickname: nick},
			CreatedAt:  c.CreatedAt,
			LikesCount: likes[c.ID],
			ParentID:   c.ParentID,
		}
		byID[c.ID] = view
		if c.ParentID == nil {
			view.Replies = []*CommentView{}
			roots = append(roots, view)
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok && parent.ParentID == nil {
			parent.Replies = append(parent.Replies, byID[c.ID])
		}
	}

	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots, nil
}

func (s *commentService) comment(ctx context.Context, commentID uint) error {
	c, err := s.Store.Comments.GetByID(ctx, nil, commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}
	return nil
}

func (s *commentService) LikeComment(ctx context.Context, userID, commentID uint) (int64, error) {
	if err := s.comment(ctx, commentID); err != nil {
		return 0, err
	}
	if err := s.Store.Comments.AddLike(ctx, nil, userID, commentID); err != nil {
		return 0, err
	}
	return s.Store.Comments.CountLikes(ctx, nil, commentID)
}

func (s *commentService) UnlikeComment(ctx context.Context, userID, commentID uint) (int64, error) {
	if err := s.comment(ctx, commentID); err != nil {
		return 0, err
	}
	if err := s.Store.Comments.RemoveLike(ctx, nil, userID, commentID); err != nil {
		return 0, err
	}
	return s.Store.Comments.CountLikes(ctx, nil, commentID)
}
