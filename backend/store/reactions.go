package store

import (
	"context"
	"time"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionCounts struct {
	Likes    int64 `json:"likes_count"`
	Dislikes int64 `json:"dislikes_count"`
}

type ReactionRepo interface {
	// Upsert writes is_like for (user, lesson), overwriting any earlier reaction.
	Upsert(ctx context.Context, tx *gorm.DB, userID, lessonID uint, isLike bool) error
	Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uint) error
	Counts(ctx context.Context, tx *gorm.DB, lessonID uint) (ReactionCounts, error)
}

type reactionRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewReactionRepo(db *gorm.DB, baseLog *zap.SugaredLogger) ReactionRepo {
	return &reactionRepo{db: db, log: baseLog.With("repo", "ReactionRepo")}
}

func (r *reactionRepo) Upsert(ctx context.Context, tx *gorm.DB, userID, lessonID uint, isLike bool) error {
	now := time.Now()
	reaction := models.LessonReaction{
		LessonID:  lessonID,
		UserID:    userID,
		IsLike:    isLike,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return pick(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_like", "updated_at"}),
		}).
		Create(&reaction).Error
}

func (r *reactionRepo) Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uint) error {
	return pick(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&models.LessonReaction{}).Error
}

func (r *reactionRepo) Counts(ctx context.Context, tx *gorm.DB, lessonID uint) (ReactionCounts, error) {
	transaction := pick(r.db, tx).WithContext(ctx)

	var counts ReactionCounts
	if err := transaction.Model(&models.LessonReaction{}).
		Where("lesson_id = ? AND is_like = ?", lessonID, true).
		Count(&counts.Likes).Error; err != nil {
		return ReactionCounts{}, err
	}
	if err := transaction.Model(&models.LessonReaction{}).
		Where("lesson_id = ? AND is_like = ?", lessonID, false).
		Count(&counts.Dislikes).Error; err != nil {
		return ReactionCounts{}, err
	}
	return counts, nil
}
