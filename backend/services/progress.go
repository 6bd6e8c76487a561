package services

import (
	"context"
	"fmt"
	"time"

	"akatsuki/backend/events"
	"akatsuki/backend/metrics"
	"akatsuki/backend/models"

	"gorm.io/gorm"
)

type ProgressService interface {
	GetLessonWithProgress(ctx context.Context, userID, lessonID uint) (*LessonView, error)
	UpdateSectionProgress(ctx context.Context, userID, lessonID uint, section models.Section, completed bool) (*ProgressView, error)
	CheckPracticeCode(ctx context.Context, userID, lessonID uint, code string) (*PracticeResult, error)
}

type PracticeResult struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Progress *ProgressView `json:"progress,omitempty"`
}

type progressService struct {
	Deps
	checker CodeChecker
}

func NewProgressService(d Deps, checker CodeChecker) ProgressService {
	if checker == nil {
		checker = AcceptAllChecker{}
	}
	return &progressService{Deps: d, checker: checker}
}

// lessonCompletion is set when an update moved a lesson to completed.
type lessonCompletion struct {
	LessonID uint
	XP       int
	TotalXP  int
}

// completeIfReady derives p.Completed from the section flags. On the
// false->true edge it adds the completion bonus and credits earned_xp to the
// user inside tx. p is mutated but not saved.
func (d Deps) completeIfReady(ctx context.Context, tx *gorm.DB, p *models.LessonProgress) (*lessonCompletion, error) {
	if p.Completed || !p.AllSectionsDone() {
		return nil, nil
	}

	p.Completed = true
	p.EarnedXP += d.Cfg.Rewards.LessonCompletionBonus

	credited, total, err := d.creditXP(ctx, tx, p.UserID, models.XPSourceLesson, p.LessonID, p.EarnedXP, map[string]interface{}{
		"bonus": d.Cfg.Rewards.LessonCompletionBonus,
	})
	if err != nil {
		return nil, err
	}
	if !credited {
		return nil, nil
	}

	d.Log.Infow("lesson completed",
		"user_id", p.UserID,
		"lesson_id", p.LessonID,
		"xp", p.EarnedXP,
	)
	return &lessonCompletion{LessonID: p.LessonID, XP: p.EarnedXP, TotalXP: total}, nil
}

func (d Deps) publishLessonCompletion(ctx context.Context, userID uint, c *lessonCompletion) {
	if c == nil {
		return
	}
	metrics.LessonsCompleted.Inc()
	metrics.XPAwarded.WithLabelValues(models.XPSourceLesson).Add(float64(c.XP))
	d.afterCommit(ctx, userID, c.TotalXP, &events.Event{
		Type:       events.LessonCompleted,
		UserID:     userID,
		LessonID:   c.LessonID,
		XP:         c.XP,
		OccurredAt: time.Now().UTC(),
	})
}

func (d Deps) sectionReward(s models.Section) int {
	switch s {
	case models.SectionIntro:
		return d.Cfg.Rewards.IntroXP
	case models.SectionVideo:
		return d.Cfg.Rewards.VideoXP
	case models.SectionPractice:
		return d.Cfg.Rewards.PracticeXP
	}
	return 0
}

func (s *progressService) lesson(ctx context.Context, lessonID uint) (*models.Lesson, error) {
	lesson, err := s.Store.Catalog.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
	}
	return lesson, nil
}

func (s *progressService) GetLessonWithProgress(ctx context.Context, userID, lessonID uint) (*LessonView, error) {
	lesson, err := s.lesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	var progress *models.LessonProgress
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.Store.Progress.GetOrCreateForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}
		progress = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	questions, err := s.Store.Catalog.ListQuestions(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	qids := make([]uint, 0, len(questions))
	for _, q := range questions {
		qids = append(qids, q.ID)
	}
	options, err := s.Store.Catalog.ListOptions(ctx, nil, qids)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uint][]OptionView, len(questions))
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], OptionView{ID: o.ID, Text: o.Text})
	}

	view := &LessonView{
		ID:       lesson.ID,
		ModuleID: lesson.ModuleID,
		Title:    lesson.Title,
		XPReward: lesson.XPReward,
		Test:     make([]QuestionView, 0, len(questions)),
		Progress: progressView(progress),
	}
	view.Intro.Title = lesson.IntroTitle
	view.Intro.Content = lesson.IntroContent
	view.Video.URL = lesson.VideoURL
	view.Video.Description = lesson.VideoDescription
	view.Practice.Instructions = lesson.PracticeInstructions
	view.Practice.CodeTemplate = lesson.PracticeCodeTemplate
	for _, q := range questions {
		opts := byQuestion[q.ID]
		if opts == nil {
			opts = []OptionView{}
		}
		view.Test = append(view.Test, QuestionView{ID: q.ID, Question: q.Question, Options: opts})
	}
	return view, nil
}

// UpdateSectionProgress marks intro, video or practice. Flags never revert, so
// completed=false only returns the current snapshot.
func (s *progressService) UpdateSectionProgress(ctx context.Context, userID, lessonID uint, section models.Section, completed bool) (*ProgressView, error) {
	switch section {
	case models.SectionIntro, models.SectionVideo, models.SectionPractice:
	default:
		return nil, fmt.Errorf("%w: section %q cannot be marked directly", ErrValidation, section)
	}
	if _, err := s.lesson(ctx, lessonID); err != nil {
		return nil, err
	}

	var (
		snapshot   *ProgressView
		awarded    int
		completion *lessonCompletion
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.Store.Progress.GetOrCreateForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}

		if completed && !p.SectionCompleted(section) {
			p.MarkSection(section)
			awarded = s.sectionReward(section)
			p.EarnedXP += awarded
		}

		completion, err = s.completeIfReady(ctx, tx, p)
		if err != nil {
			return err
		}

		if err := s.Store.Progress.Save(ctx, tx, p); err != nil {
			return err
		}
		snapshot = progressView(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if awarded > 0 {
		metrics.SectionCompletions.WithLabelValues(string(section)).Inc()
		s.Log.Infow("section completed",
			"user_id", userID,
			"lesson_id", lessonID,
			"section", section,
			"xp", awarded,
		)
	}
	s.publishLessonCompletion(ctx, userID, completion)
	return snapshot, nil
}

func (s *progressService) CheckPracticeCode(ctx context.Context, userID, lessonID uint, code string) (*PracticeResult, error) {
	lesson, err := s.lesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	ok, message, err := s.checker.Check(ctx, lesson, code)
	if err != nil {
		return nil, fmt.Errorf("check practice code: %w", err)
	}
	if !ok {
		return &PracticeResult{Success: false, Message: message}, nil
	}

	progress, err := s.UpdateSectionProgress(ctx, userID, lessonID, models.SectionPractice, true)
	if err != nil {
		return nil, err
	}
	return &PracticeResult{Success: true, Message: message, Progress: progress}, nil
}
