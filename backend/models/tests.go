package models

import "gorm.io/gorm"

type TestQuestion struct {
	gorm.Model
	LessonID      uint   `gorm:"index;not null"`
	Question      string `gorm:"not null"`
	SequenceOrder int    `gorm:"not null"`
}

type TestOption struct {
	gorm.Model
	QuestionID    uint   `gorm:"index;not null"`
	Text          string `gorm:"not null"`
	IsCorrect     bool   `gorm:"not null;default:false"`
	SequenceOrder int    `gorm:"not null"`
}

// UserTestAnswer is an audit row. Every submission appends, nothing reads it back for scoring.
type UserTestAnswer struct {
	gorm.Model
	UserID           uint `gorm:"index;not null"`
	LessonID         uint `gorm:"index;not null"`
	QuestionID       uint `gorm:"not null"`
	SelectedOptionID uint `gorm:"not null"`
	IsCorrect        bool `gorm:"not null"`
}
