package store

import (
	"context"
	"errors"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepo interface {
	// Create is a no-op returning false if the user already holds one for the course.
	Create(ctx context.Context, tx *gorm.DB, cert *models.Certificate) (bool, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error)
	GetByUserCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Certificate, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewCertificateRepo(db *gorm.DB, baseLog *zap.SugaredLogger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(ctx context.Context, tx *gorm.DB, cert *models.Certificate) (bool, error) {
	res := pick(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cert)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *certificateRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error) {
	var cert models.Certificate
	err := pick(r.db, tx).WithContext(ctx).Where("verification_code = ?", code).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepo) GetByUserCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := pick(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}
