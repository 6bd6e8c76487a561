package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Nickname     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	XP           int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsVerified   bool   `gorm:"not null;default:false"`
}

const (
	XPSourceLesson = "lesson"
	XPSourceCourse = "course"
)

// XPTransaction is one credit to User.XP. The unique (user, source, source_id)
// index is what keeps a lesson or course from being credited twice.
type XPTransaction struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_xp_user_source"`
	Source    string         `gorm:"size:16;not null;uniqueIndex:idx_xp_user_source"`
	SourceID  uint           `gorm:"not null;uniqueIndex:idx_xp_user_source"`
	Amount    int            `gorm:"not null"`
	Metadata  datatypes.JSON
	CreatedAt time.Time
}
