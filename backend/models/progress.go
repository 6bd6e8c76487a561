package models

import "gorm.io/gorm"

type Section string

const (
	SectionIntro    Section = "intro"
	SectionVideo    Section = "video"
	SectionPractice Section = "practice"
	SectionTest     Section = "test"
)

type LessonProgress struct {
	gorm.Model
	UserID            uint `gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID          uint `gorm:"not null;uniqueIndex:idx_user_lesson"`
	IntroCompleted    bool `gorm:"not null;default:false"`
	VideoCompleted    bool `gorm:"not null;default:false"`
	PracticeCompleted bool `gorm:"not null;default:false"`
	TestCompleted     bool `gorm:"not null;default:false"`
	TestScore         *int
	EarnedXP          int  `gorm:"not null;default:0"`
	Completed         bool `gorm:"not null;default:false"`
}

// AllSectionsDone reports whether every section flag is set.
func (p *LessonProgress) AllSectionsDone() bool {
	return p.IntroCompleted && p.VideoCompleted && p.PracticeCompleted && p.TestCompleted
}

// SectionCompleted returns the flag for one section.
func (p *LessonProgress) SectionCompleted(s Section) bool {
	switch s {
	case SectionIntro:
		return p.IntroCompleted
	case SectionVideo:
		return p.VideoCompleted
	case SectionPractice:
		return p.PracticeCompleted
	case SectionTest:
		return p.TestCompleted
	}
	return false
}

// MarkSection sets the flag for one section.
func (p *LessonProgress) MarkSection(s Section) {
	switch s {
	case SectionIntro:
		p.IntroCompleted = true
	case SectionVideo:
		p.VideoCompleted = true
	case SectionPractice:
		p.PracticeCompleted = true
	case SectionTest:
		p.TestCompleted = true
	}
}
