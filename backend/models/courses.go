package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseInProgress CourseStatus = "in_progress"
	CourseCompleted  CourseStatus = "completed"
)

func (s CourseStatus) Valid() bool {
	return s == CourseInProgress || s == CourseCompleted
}

type Course struct {
	gorm.Model
	Title       string `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text;not null"`
	Duration    int    // minutes
	XPReward    int    `gorm:"not null;default:0"`
}

type Module struct {
	gorm.Model
	CourseID      uint   `gorm:"index;not null"`
	Title         string `gorm:"not null"`
	Description   string `gorm:"type:text"`
	SequenceOrder int    `gorm:"not null"`
}

type Lesson struct {
	gorm.Model
	ModuleID             uint   `gorm:"index;not null"`
	Title                string `gorm:"not null"`
	IntroTitle           string
	IntroContent         string `gorm:"type:text"`
	VideoURL             string
	VideoDescription     string `gorm:"type:text"`
	PracticeInstructions string `gorm:"type:text"`
	PracticeCodeTemplate string `gorm:"type:text"`
	SequenceOrder        int    `gorm:"not null"`
	XPReward             int    `gorm:"not null;default:0"`
}

// UserCourse is a user's enrollment in a course.
type UserCourse struct {
	gorm.Model
	UserID      uint         `gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID    uint         `gorm:"not null;uniqueIndex:idx_user_course"`
	Status      CourseStatus `gorm:"size:16;not null;default:in_progress"`
	Progress    int          `gorm:"not null;default:0"`
	EarnedXP    int          `gorm:"not null;default:0"`
	StartedAt   time.Time
	CompletedAt *time.Time
}

type Certificate struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_user_course_certificate"`
	CourseID         uint      `gorm:"not null;uniqueIndex:idx_user_course_certificate"`
	VerificationCode string    `gorm:"size:64;not null;uniqueIndex"`
	IssuedAt         time.Time `gorm:"not null"`
	IsValid          bool      `gorm:"not null;default:true"`
}
