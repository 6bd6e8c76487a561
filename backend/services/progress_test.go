package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"akatsuki/backend/events"
	"akatsuki/backend/models"
	"akatsuki/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetLessonWithProgressCreatesRowAndHidesAnswers(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewProgressService(d, nil)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	_, module := testutil.SeedCourse(t, db, 100)
	lesson := testutil.SeedLesson(t, db, module.ID, 40)
	q, _, _ := testutil.SeedQuestion(t, db, lesson.ID)

	view, err := svc.GetLessonWithProgress(ctx, user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.Title, view.Title)
	require.Len(t, view.Test, 1)
	assert.Equal(t, q.ID, view.Test[0].ID)
	assert.Len(t, view.Test[0].Options, 2)
	assert.False(t, view.Progress.Completed)
	assert.Nil(t, view.Progress.TestScore)

	var n int64
	require.NoError(t, db.Model(&models.LessonProgress{}).Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = svc.GetLessonWithProgress(ctx, user.ID, lesson.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.LessonProgress{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestGetLessonWithProgressMissingLesson(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewProgressService(d, nil)
	user := testutil.SeedUser(t, db)

	_, err := svc.GetLessonWithProgress(context.Background(), user.ID, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateSectionProgressIsIdempotent(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewProgressService(d, nil)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	_, module := testutil.SeedCourse(t, db, 100)
	lesson := testutil.SeedLesson(t, db, module.ID, 40)

	tests := []struct {
		section models.Section
		want    int
	}{
		{models.SectionIntro, 10},
		{models.SectionVideo, 25},
		{models.SectionPractice, 50},
	}
	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			p, err := svc.UpdateSectionProgress(ctx, user.ID, lesson.ID, tt.section, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.EarnedXP)

			p, err = svc.UpdateSectionProgress(ctx, user.ID, lesson.ID, tt.section, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.EarnedXP)
		})
	}

	p, err := svc.UpdateSectionProgress(ctx, user.ID, lesson.ID, models.SectionIntro, false)
	require.NoError(t, err)
	assert.True(t, p.IntroCompleted)
	assert.Equal(t, 50, p.EarnedXP)
	assert.False(t, p.Completed)

	assert.Zero(t, reloadUser(t, db, user.ID).XP)
}

func TestUpdateSectionProgressRejectsTestSection(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewProgressService(d, nil)

	user := testutil.SeedUser(t, db)
	_, module := testutil.SeedCourse(t, db, 100)
	lesson := testutil.SeedLesson(t, db, module.ID, 40)

	_, err := svc.UpdateSectionProgress(context.Background(), user.ID, lesson.ID, models.SectionTest, true)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateSectionProgress(context.Background(), user.ID, lesson.ID, models.Section("outro"), true)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateSectionProgress(context.Background(), user.ID, lesson.ID+100, models.SectionIntro, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonCompletionCreditsUserOnce(t *testing.T) {
	d, db, pub := newTestDeps(t)
	progress := NewProgressService(d, nil)
	quiz := NewQuizService(d)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	_, module := testutil.SeedCourse(t, db, 100)
	lesson := testutil.SeedLesson(t, db, module.ID, 40)
	q1, c1, _ := testutil.SeedQuestion(t, db, lesson.ID)

	// quiz first, sections after: completion fires on the last section
	res, err := quiz.SubmitQuiz(ctx, user.ID, lesson.ID, map[uint]uint{q1.ID: c1.ID})
	require.NoError(t, err)
	require.True(t, res.Passed)
	assert.Equal(t, 40, res.XPEarned)

	for _, s := range []models.Section{models.SectionIntro, models.SectionVideo} {
		_, err := progress.UpdateSectionProgress(ctx, user.ID, lesson.ID, s, true)
		require.NoError(t, err)
	}
	assert.Zero(t, reloadUser(t, db, user.ID).XP)

	p, err := progress.UpdateSectionProgress(ctx, user.ID, lesson.ID, models.SectionPractice, true)
	require.NoError(t, err)
	assert.True(t, p.Completed)
	// 40 quiz + 10 + 15 + 25 + 15 bonus
	assert.Equal(t, 105, p.EarnedXP)
	assert.Equal(t, 105, reloadUser(t, db, user.ID).XP)

	// the qualifying update delivered again
	p, err = progress.UpdateSectionProgress(ctx, user.ID, lesson.ID, models.SectionPractice, true)
	require.NoError(t, err)
	assert.Equal(t, 105, p.EarnedXP)

	res, err = quiz.SubmitQuiz(ctx, user.ID, lesson.ID, map[uint]uint{q1.ID: c1.ID})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Zero(t, res.XPEarned)

	assert.Equal(t, 105, reloadUser(t, db, user.ID).XP)
	rows := ledgerRows(t, db, user.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.XPSourceLesson, rows[0].Source)
	assert.Equal(t, lesson.ID, rows[0].SourceID)
	assert.Equal(t, 105, rows[0].Amount)

	completed := pub.ByType(events.LessonCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, 105, completed[0].XP)
}

// readyForCompletion passes the quiz and marks intro and video, leaving
// practice as the qualifying update.
func readyForCompletion(t *testing.T, d Deps, db *gorm.DB) (user *models.User, lesson *models.Lesson) {
	t.Helper()
	ctx := context.Background()
	user = testutil.SeedUser(t, db)
	_, module := testutil.SeedCourse(t, db, 100)
	lesson = testutil.SeedLesson(t, db, module.ID, 40)
	q, c, _ := testutil.SeedQuestion(t, db, lesson.ID)

	res, err := NewQuizService(d).SubmitQuiz(ctx, user.ID, lesson.ID, map[uint]uint{q.ID: c.ID})
	require.NoError(t, err)
	require.True(t, res.Passed)

	progress := NewProgressService(d, nil)
	for _, s := range []models.Section{models.SectionIntro, models.SectionVideo} {
		_, err := progress.UpdateSectionProgress(ctx, user.ID, lesson.ID, s, true)
		require.NoError(t, err)
	}
	return user, lesson
}

func TestLessonCompletionRollsBackOnSaveFailure(t *testing.T) {
	d, db, pub := newTestDeps(t)
	user, lesson := readyForCompletion(t, d, db)
	ctx := context.Background()

	var failing atomic.Bool
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_progress_save", func(tx *gorm.DB) {
		if failing.Load() && tx.Statement.Table == "lesson_progresses" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	svc := NewProgressService(d, nil)
	failing.Store(true)
	_, err := svc.UpdateSectionProgress(ctx, user.ID, lesson.ID, models.SectionPractice, true)
	require.Error(t, err)

	assert.Zero(t, reloadUser(t, db, user.ID).XP)
	assert.Empty(t, ledgerRows(t, db, user.ID))
	assert.Empty(t, pub.ByType(events.LessonCompleted))
	var p models.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).First(&p).Error)
	assert.False(t, p.PracticeCompleted)
	assert.False(t, p.Completed)

	failing.Store(false)
	view, err := svc.UpdateSectionProgress(ctx, user.ID, lesson.ID, models.SectionPractice, true)
	require.NoError(t, err)
	assert.True(t, view.Completed)
	assert.Equal(t, 105, reloadUser(t, db, user.ID).XP)
	assert.Len(t, ledgerRows(t, db, user.ID), 1)
}

func TestConcurrentQualifyingUpdatesCreditOnce(t *testing.T) {
	d, db, pub := newTestDeps(t)
	user, lesson := readyForCompletion(t, d, db)
	svc := NewProgressService(d, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateSectionProgress(context.Background(), user.ID, lesson.ID, models.SectionPractice, true)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 105, reloadUser(t, db, user.ID).XP)
	rows := ledgerRows(t, db, user.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 105, rows[0].Amount)
	assert.Len(t, pub.ByType(events.LessonCompleted), 1)
}

type rejectingChecker struct{}

func (rejectingChecker) Check(context.Context, *models.Lesson, string) (bool, string, error) {
	return false, "nope", nil
}

func TestCheckPracticeCode(t *testing.T) {
	d, db, _ := newTestDeps(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	_, module := testutil.SeedCourse(t, db, 100)
	lesson := testutil.SeedLesson(t, db, module.ID, 40)

	svc := NewProgressService(d, nil)

	res, err := svc.CheckPracticeCode(ctx, user.ID, lesson.ID, "   ")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.Progress)

	res, err = svc.CheckPracticeCode(ctx, user.ID, lesson.ID, "print('hi')")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Progress)
	assert.True(t, res.Progress.PracticeCompleted)
	assert.Equal(t, 25, res.Progress.EarnedXP)

	res, err = svc.CheckPracticeCode(ctx, user.ID, lesson.ID, "print('again')")
	require.NoError(t, err)
	assert.Equal(t, 25, res.Progress.EarnedXP)

	other := testutil.SeedUser(t, db)
	strict := NewProgressService(d, rejectingChecker{})
	res, err = strict.CheckPracticeCode(ctx, other.ID, lesson.ID, "print('hi')")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "nope", res.Message)
}
