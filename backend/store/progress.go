package store

import (
	"context"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepo interface {
	// GetOrCreateForUpdate inserts an empty row if none exists and returns it
	// locked for the rest of tx.
	GetOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*models.LessonProgress, error)
	Save(ctx context.Context, tx *gorm.DB, p *models.LessonProgress) error
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uint, lessonIDs []uint) (int64, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewProgressRepo(db *gorm.DB, baseLog *zap.SugaredLogger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) GetOrCreateForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*models.LessonProgress, error) {
	transaction := pick(r.db, tx).WithContext(ctx)

	fresh := models.LessonProgress{UserID: userID, LessonID: lessonID}
	if err := transaction.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var p models.LessonProgress
	if err := transaction.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepo) Save(ctx context.Context, tx *gorm.DB, p *models.LessonProgress) error {
	return pick(r.db, tx).WithContext(ctx).Save(p).Error
}

func (r *progressRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID uint, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := pick(r.db, tx).WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Count(&n).Error
	return n, err
}
