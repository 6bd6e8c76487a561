package store

import (
	"context"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AnswerRepo interface {
	Append(ctx context.Context, tx *gorm.DB, answers []*models.UserTestAnswer) error
}

type answerRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewAnswerRepo(db *gorm.DB, baseLog *zap.SugaredLogger) AnswerRepo {
	return &answerRepo{db: db, log: baseLog.With("repo", "AnswerRepo")}
}

func (r *answerRepo) Append(ctx context.Context, tx *gorm.DB, answers []*models.UserTestAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return pick(r.db, tx).WithContext(ctx).Create(&answers).Error
}
