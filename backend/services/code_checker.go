package services

import (
	"context"
	"strings"

	"akatsuki/backend/models"
)

// CodeChecker evaluates a practice submission for a lesson.
type CodeChecker interface {
	Check(ctx context.Context, lesson *models.Lesson, code string) (ok bool, message string, err error)
}

// AcceptAllChecker accepts any non-blank submission. It stands in until a real
// evaluator is wired.
type AcceptAllChecker struct{}

func (AcceptAllChecker) Check(_ context.Context, _ *models.Lesson, code string) (bool, string, error) {
	if strings.TrimSpace(code) == "" {
		return false, "Code must not be empty", nil
	}
	return true, "Great! Your code passed the check.", nil
}
