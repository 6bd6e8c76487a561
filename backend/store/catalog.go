package store

import (
	"context"
	"errors"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogRepo is read-only access to courses, modules, lessons and quiz content.
// Lookups that miss return (nil, nil).
type CatalogRepo interface {
	GetCourse(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	ListCourses(ctx context.Context, tx *gorm.DB, offset, limit int) ([]models.Course, int64, error)
	ListModules(ctx context.Context, tx *gorm.DB, courseID uint) ([]models.Module, error)
	ListLessonsByModules(ctx context.Context, tx *gorm.DB, moduleIDs []uint) ([]models.Lesson, error)
	GetLesson(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error)
	ListQuestions(ctx context.Context, tx *gorm.DB, lessonID uint) ([]models.TestQuestion, error)
	ListOptions(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]models.TestOption, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewCatalogRepo(db *gorm.DB, baseLog *zap.SugaredLogger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) GetCourse(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	var c models.Course
	err := pick(r.db, tx).WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *catalogRepo) ListCourses(ctx context.Context, tx *gorm.DB, offset, limit int) ([]models.Course, int64, error) {
	transaction := pick(r.db, tx).WithContext(ctx)

	var total int64
	if err := transaction.Model(&models.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []models.Course
	if err := transaction.
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *catalogRepo) ListModules(ctx context.Context, tx *gorm.DB, courseID uint) ([]models.Module, error) {
	var modules []models.Module
	err := pick(r.db, tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sequence_order ASC, id ASC").
		Find(&modules).Error
	return modules, err
}

func (r *catalogRepo) ListLessonsByModules(ctx context.Context, tx *gorm.DB, moduleIDs []uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if len(moduleIDs) == 0 {
		return lessons, nil
	}
	err := pick(r.db, tx).WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id ASC, sequence_order ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *catalogRepo) GetLesson(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error) {
	var l models.Lesson
	err := pick(r.db, tx).WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *catalogRepo) ListQuestions(ctx context.Context, tx *gorm.DB, lessonID uint) ([]models.TestQuestion, error) {
	var questions []models.TestQuestion
	err := pick(r.db, tx).WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("sequence_order ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *catalogRepo) ListOptions(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]models.TestOption, error) {
	var options []models.TestOption
	if len(questionIDs) == 0 {
		return options, nil
	}
	err := pick(r.db, tx).WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("question_id ASC, sequence_order ASC, id ASC").
		Find(&options).Error
	return options, err
}
