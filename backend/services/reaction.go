package services

import (
	"context"
	"fmt"

	"akatsuki/backend/store"
)

type ReactionService interface {
	LikeLesson(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error)
	DislikeLesson(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error)
	RemoveLessonReaction(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error)
}

type reactionService struct {
	Deps
}

func NewReactionService(d Deps) ReactionService {
	return &reactionService{Deps: d}
}

func (s *reactionService) ensureLesson(ctx context.Context, lessonID uint) error {
	lesson, err := s.Store.Catalog.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return err
	}
	if lesson == nil {
		return fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
	}
	return nil
}

func (s *reactionService) react(ctx context.Context, userID, lessonID uint, isLike bool) (store.ReactionCounts, error) {
	if err := s.ensureLesson(ctx, lessonID); err != nil {
		return store.ReactionCounts{}, err
	}
	if err := s.Store.Reactions.Upsert(ctx, nil, userID, lessonID, isLike); err != nil {
		return store.ReactionCounts{}, err
	}
	return s.Store.Reactions.Counts(ctx, nil, lessonID)
}

func (s *reactionService) LikeLesson(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error) {
	return s.react(ctx, userID, lessonID, true)
}

func (s *reactionService) DislikeLesson(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error) {
	return s.react(ctx, userID, lessonID, false)
}

func (s *reactionService) RemoveLessonReaction(ctx context.Context, userID, lessonID uint) (store.ReactionCounts, error) {
	if err := s.ensureLesson(ctx, lessonID); err != nil {
		return store.ReactionCounts{}, err
	}
	if err := s.Store.Reactions.Delete(ctx, nil, userID, lessonID); err != nil {
		return store.ReactionCounts{}, err
	}
	return s.Store.Reactions.Counts(ctx, nil, lessonID)
}
