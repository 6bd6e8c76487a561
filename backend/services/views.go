package services

import (
	"time"

	"akatsuki/backend/models"
)

type ProgressView struct {
	LessonID          uint `json:"lesson_id"`
	IntroCompleted    bool `json:"intro_completed"`
	VideoCompleted    bool `json:"video_completed"`
	PracticeCompleted bool `json:"practice_completed"`
	TestCompleted     bool `json:"test_completed"`
	TestScore         *int `json:"test_score"`
	EarnedXP          int  `json:"earned_xp"`
	Completed         bool `json:"completed"`
}

func progressView(p *models.LessonProgress) *ProgressView {
	return &ProgressView{
		LessonID:          p.LessonID,
		IntroCompleted:    p.IntroCompleted,
		VideoCompleted:    p.VideoCompleted,
		PracticeCompleted: p.PracticeCompleted,
		TestCompleted:     p.TestCompleted,
		TestScore:         p.TestScore,
		EarnedXP:          p.EarnedXP,
		Completed:         p.Completed,
	}
}

type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionView never carries the correct option.
type QuestionView struct {
	ID       uint         `json:"id"`
	Question string       `json:"question"`
	Options  []OptionView `json:"options"`
}

type LessonView struct {
	ID       uint   `json:"id"`
	ModuleID uint   `json:"module_id"`
	Title    string `json:"title"`
	Intro    struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"intro"`
	Video struct {
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"video"`
	Practice struct {
		Instructions string `json:"instructions"`
		CodeTemplate string `json:"code_template"`
	} `json:"practice"`
	Test     []QuestionView `json:"test"`
	XPReward int            `json:"xp_reward"`
	Progress *ProgressView  `json:"progress"`
}

type LessonSummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	SequenceOrder int    `json:"order"`
	XPReward      int    `json:"xp_reward"`
}

type ModuleView struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SequenceOrder int             `json:"order"`
	Lessons       []LessonSummary `json:"lessons"`
}

type CourseSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	XPReward    int    `json:"xp_reward"`
}

func courseSummary(c *models.Course) CourseSummary {
	return CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Duration:    c.Duration,
		XPReward:    c.XPReward,
	}
}

type CourseDetail struct {
	CourseSummary
	Modules []ModuleView `json:"modules"`
}

type CoursePage struct {
	Items []CourseSummary `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type EnrollmentView struct {
	CourseID         uint                `json:"course_id"`
	CourseTitle      string              `json:"course_title"`
	Status           models.CourseStatus `json:"status"`
	Progress         int                 `json:"progress"`
	EarnedXP         int                 `json:"earned_xp"`
	StartedAt        time.Time           `json:"started_at"`
	CompletedAt      *time.Time          `json:"completed_at"`
	LessonsTotal     int                 `json:"lessons_total,omitempty"`
	LessonsCompleted int64               `json:"lessons_completed,omitempty"`
	CertificateCode  string              `json:"certificate_code,omitempty"`
}

func enrollmentView(uc *models.UserCourse, title string) *EnrollmentView {
	return &EnrollmentView{
		CourseID:    uc.CourseID,
		CourseTitle: title,
		Status:      uc.Status,
		Progress:    uc.Progress,
		EarnedXP:    uc.EarnedXP,
		StartedAt:   uc.StartedAt,
		CompletedAt: uc.CompletedAt,
	}
}

type CertificateView struct {
	VerificationCode string    `json:"verification_code"`
	UserID           uint      `json:"user_id"`
	Nickname         string    `json:"nickname"`
	CourseID         uint      `json:"course_id"`
	CourseTitle      string    `json:"course_title"`
	IssuedAt         time.Time `json:"issued_at"`
	IsValid          bool      `json:"is_valid"`
}

type CommentAuthor struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

type CommentView struct {
	ID         uint           `json:"id"`
	Text       string         `json:"text"`
	User       CommentAuthor  `json:"user"`
	CreatedAt  time.Time      `json:"created_at"`
	LikesCount int64          `json:"likes_count"`
	ParentID   *uint          `json:"parent_id"`
	Replies    []*CommentView `json:"replies,omitempty"`
}

type UserView struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Nickname   string    `json:"nickname"`
	XP         int       `json:"xp"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func userView(u *models.User) *UserView {
	return &UserView{
		ID:         u.ID,
		Email:      u.Email,
		Nickname:   u.Nickname,
		XP:         u.XP,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type ProfileView struct {
	UserView
	Enrollments []*EnrollmentView `json:"enrollments"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nickname"`
	XP       int    `json:"xp"`
}
