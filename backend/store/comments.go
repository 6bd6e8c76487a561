package store

import (
	"context"
	"errors"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, c *models.LessonComment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LessonComment, error)
	// ListByLesson returns every comment of the lesson in creation order.
	ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]models.LessonComment, error)
	LikeCounts(ctx context.Context, tx *gorm.DB, commentIDs []uint) (map[uint]int64, error)
	AddLike(ctx context.Context, tx *gorm.DB, userID, commentID uint) error
	RemoveLike(ctx context.Context, tx *gorm.DB, userID, commentID uint) error
	CountLikes(ctx context.Context, tx *gorm.DB, commentID uint) (int64, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewCommentRepo(db *gorm.DB, baseLog *zap.SugaredLogger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(ctx context.Context, tx *gorm.DB, c *models.LessonComment) error {
	return pick(r.db, tx).WithContext(ctx).Create(c).Error
}

func (r *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LessonComment, error) {
	var c models.LessonComment
	err := pick(r.db, tx).WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]models.LessonComment, error) {
	var comments []models.LessonComment
	err := pick(r.db, tx).WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepo) LikeCounts(ctx context.Context, tx *gorm.DB, commentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID uint
		N         int64
	}
	err := pick(r.db, tx).WithContext(ctx).
		Model(&models.CommentLike{}).
		Select("comment_id, COUNT(*) AS n").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CommentID] = row.N
	}
	return counts, nil
}

func (r *commentRepo) AddLike(ctx context.Context, tx *gorm.DB, userID, commentID uint) error {
	like := models.CommentLike{CommentID: commentID, UserID: userID}
	return pick(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

func (r *commentRepo) RemoveLike(ctx context.Context, tx *gorm.DB, userID, commentID uint) error {
	return pick(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error
}

func (r *commentRepo) CountLikes(ctx context.Context, tx *gorm.DB, commentID uint) (int64, error) {
	var n int64
	err := pick(r.db, tx).WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&n).Error
	return n, err
}
