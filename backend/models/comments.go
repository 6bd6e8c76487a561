package models

import (
	"time"

	"gorm.io/gorm"
)

type LessonComment struct {
	gorm.Model
	LessonID uint   `gorm:"index;not null"`
	UserID   uint   `gorm:"index;not null"`
	Text     string `gorm:"type:text;not null"`
	ParentID *uint  `gorm:"index"`
}

// CommentLike and LessonReaction are hard-deleted, so they carry no DeletedAt
// and their unique indexes stay meaningful.
type CommentLike struct {
	ID        uint `gorm:"primaryKey"`
	CommentID uint `gorm:"not null;uniqueIndex:idx_user_comment_like"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_comment_like"`
	CreatedAt time.Time
}

type LessonReaction struct {
	ID        uint `gorm:"primaryKey"`
	LessonID  uint `gorm:"not null;uniqueIndex:idx_user_lesson_reaction"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_lesson_reaction"`
	IsLike    bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
