package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"akatsuki/backend/events"
	"akatsuki/backend/metrics"
	"akatsuki/backend/models"

	"gorm.io/gorm"
)

type QuizService interface {
	SubmitQuiz(ctx context.Context, userID, lessonID uint, answers map[uint]uint) (*QuizResult, error)
}

type QuizResult struct {
	Score    int           `json:"score"`
	Total    int           `json:"total"`
	Passed   bool          `json:"passed"`
	Message  string        `json:"message"`
	XPEarned int           `json:"xp_earned"`
	Progress *ProgressView `json:"progress,omitempty"`
}

type quizService struct {
	Deps
}

func NewQuizService(d Deps) QuizService {
	return &quizService{Deps: d}
}

// ParseAnswers converts a decoded JSON answers object into question->option ids.
// Keys and values must be positive integers; values may be JSON numbers or
// numeric strings.
func ParseAnswers(raw map[string]interface{}) (map[uint]uint, error) {
	answers := make(map[uint]uint, len(raw))
	for k, v := range raw {
		qid, err := parseID(k)
		if err != nil {
			return nil, fmt.Errorf("%w: question id %q", ErrValidation, k)
		}

		var oid uint
		switch val := v.(type) {
		case float64:
			if val <= 0 || val != math.Trunc(val) || val > math.MaxUint32 {
				return nil, fmt.Errorf("%w: option id %v for question %d", ErrValidation, val, qid)
			}
			oid = uint(val)
		case string:
			oid, err = parseID(val)
			if err != nil {
				return nil, fmt.Errorf("%w: option id %q for question %d", ErrValidation, val, qid)
			}
		default:
			return nil, fmt.Errorf("%w: option id for question %d", ErrValidation, qid)
		}
		answers[qid] = oid
	}
	return answers, nil
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, strconv.ErrRange
	}
	return uint(n), nil
}

func (s *quizService) SubmitQuiz(ctx context.Context, userID, lessonID uint, answers map[uint]uint) (*QuizResult, error) {
	lesson, err := s.Store.Catalog.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
	}

	questions, err := s.Store.Catalog.ListQuestions(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	qids := make([]uint, 0, len(questions))
	inLesson := make(map[uint]bool, len(questions))
	for _, q := range questions {
		qids = append(qids, q.ID)
		inLesson[q.ID] = true
	}
	for qid := range answers {
		if !inLesson[qid] {
			return nil, fmt.Errorf("%w: question %d is not part of lesson %d", ErrValidation, qid, lessonID)
		}
	}

	options, err := s.Store.Catalog.ListOptions(ctx, nil, qids)
	if err != nil {
		return nil, err
	}
	correctOption := make(map[uint]uint, len(questions))
	for _, o := range options {
		if o.IsCorrect {
			if _, seen := correctOption[o.QuestionID]; !seen {
				correctOption[o.QuestionID] = o.ID
			}
		}
	}

	answered := make([]uint, 0, len(answers))
	for qid := range answers {
		answered = append(answered, qid)
	}
	sort.Slice(answered, func(i, j int) bool { return answered[i] < answered[j] })

	correct := 0
	audit := make([]*models.UserTestAnswer, 0, len(answered))
	for _, qid := range answered {
		selected := answers[qid]
		want, ok := correctOption[qid]
		isCorrect := ok && want == selected
		if isCorrect {
			correct++
		}
		audit = append(audit, &models.UserTestAnswer{
			UserID:           userID,
			LessonID:         lessonID,
			QuestionID:       qid,
			SelectedOptionID: selected,
			IsCorrect:        isCorrect,
		})
	}

	total := len(questions)
	percent := 0.0
	if total > 0 {
		percent = float64(correct) * 100 / float64(total)
	}
	passed := total > 0 && percent >= s.Cfg.Rewards.QuizPassPercent

	var (
		xp         int
		firstPass  bool
		snapshot   *ProgressView
		completion *lessonCompletion
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Store.Answers.Append(ctx, tx, audit); err != nil {
			return err
		}

		p, err := s.Store.Progress.GetOrCreateForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}

		firstPass = passed && !p.TestCompleted
		score := correct
		p.TestScore = &score
		if firstPass {
			p.TestCompleted = true
			// floor(xp_reward * percent / 100) without float rounding
			xp = lesson.XPReward * correct / total
			p.EarnedXP += xp
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

	metrics.QuizSubmissions.WithLabelValues(metrics.QuizResult(passed)).Inc()
	if firstPass {
		metrics.SectionCompletions.WithLabelValues(string(models.SectionTest)).Inc()
	}
	s.Log.Infow("quiz submitted",
		"user_id", userID,
		"lesson_id", lessonID,
		"score", correct,
		"total", total,
		"passed", passed,
		"xp", xp,
	)
	if err := s.Events.Publish(ctx, events.Event{
		Type:       events.QuizSubmitted,
		UserID:     userID,
		LessonID:   lessonID,
		XP:         xp,
		Score:      correct,
		Total:      total,
		Passed:     passed,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.Log.Warnw("event publish failed", "type", events.QuizSubmitted, "user_id", userID, "error", err)
	}
	s.publishLessonCompletion(ctx, userID, completion)

	return &QuizResult{
		Score:    correct,
		Total:    total,
		Passed:   passed,
		Message:  s.quizMessage(passed, xp),
		XPEarned: xp,
		Progress: snapshot,
	}, nil
}

func (s *quizService) quizMessage(passed bool, xp int) string {
	if !passed {
		return fmt.Sprintf("You need at least %.0f%% correct answers to pass the test.", s.Cfg.Rewards.QuizPassPercent)
	}
	if xp > 0 {
		return fmt.Sprintf("Test passed! You earned %d XP.", xp)
	}
	return "Test passed!"
}
