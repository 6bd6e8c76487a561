package store

import (
	"context"
	"errors"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepo interface {
	// Create reports false when the (user, course) pair is already enrolled.
	Create(ctx context.Context, tx *gorm.DB, uc *models.UserCourse) (bool, error)
	Get(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.UserCourse, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.UserCourse, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.UserCourse, error)
	Save(ctx context.Context, tx *gorm.DB, uc *models.UserCourse) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *zap.SugaredLogger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, uc *models.UserCourse) (bool, error) {
	res := pick(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(uc)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enrollmentRepo) Get(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.UserCourse, error) {
	return r.get(pick(r.db, tx).WithContext(ctx), userID, courseID)
}

func (r *enrollmentRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.UserCourse, error) {
	return r.get(pick(r.db, tx).WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, courseID)
}

func (r *enrollmentRepo) get(transaction *gorm.DB, userID, courseID uint) (*models.UserCourse, error) {
	var uc models.UserCourse
	err := transaction.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&uc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.UserCourse, error) {
	var list []models.UserCourse
	err := pick(r.db, tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) Save(ctx context.Context, tx *gorm.DB, uc *models.UserCourse) error {
	return pick(r.db, tx).WithContext(ctx).Save(uc).Error
}
