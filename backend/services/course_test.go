package services

import (
	"context"
	"testing"
	"time"

	"akatsuki/backend/events"
	"akatsuki/backend/models"
	"akatsuki/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func statusPtr(s models.CourseStatus) *models.CourseStatus { return &s }

func TestEnroll(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewCourseService(d)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, _ := testutil.SeedCourse(t, db, 100)

	view, err := svc.Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseInProgress, view.Status)
	assert.Equal(t, course.Title, view.CourseTitle)

	_, err = svc.Enroll(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Enroll(ctx, user.ID, course.ID+50)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.ListEnrollments(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateCourseProgressCompletesOnce(t *testing.T) {
	d, db, pub := newTestDeps(t)
	svc := NewCourseService(d)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, _ := testutil.SeedCourse(t, db, 100)
	_, err := svc.Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)

	view, err := svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Progress: intPtr(40)})
	require.NoError(t, err)
	assert.Equal(t, 40, view.Progress)
	assert.Equal(t, models.CourseInProgress, view.Status)
	assert.Zero(t, view.EarnedXP)

	view, err = svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Status: statusPtr(models.CourseCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.CourseCompleted, view.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, 100, view.EarnedXP)
	assert.NotNil(t, view.CompletedAt)
	assert.NotEmpty(t, view.CertificateCode)
	assert.Equal(t, 100, reloadUser(t, db, user.ID).XP)

	view, err = svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{
		Progress: intPtr(10),
		Status:   statusPtr(models.CourseCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, 100, reloadUser(t, db, user.ID).XP)

	view, err = svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Status: statusPtr(models.CourseInProgress)})
	require.NoError(t, err)
	assert.Equal(t, models.CourseCompleted, view.Status)

	rows := ledgerRows(t, db, user.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.XPSourceCourse, rows[0].Source)
	assert.Len(t, pub.ByType(events.CourseCompleted), 1)

	enrollment, err := svc.GetEnrollment(ctx, user.ID, course.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.CertificateCode)

	cert, err := svc.GetCertificate(ctx, enrollment.CertificateCode)
	require.NoError(t, err)
	assert.Equal(t, user.Nickname, cert.Nickname)
	assert.Equal(t, course.Title, cert.CourseTitle)
	assert.True(t, cert.IsValid)
}

func TestCourseCompletionReturnsStoredCertificate(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewCourseService(d)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, _ := testutil.SeedCourse(t, db, 100)
	_, err := svc.Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)

	prior := &models.Certificate{
		UserID:           user.ID,
		CourseID:         course.ID,
		VerificationCode: "issued-earlier",
		IssuedAt:         time.Now().UTC(),
		IsValid:          true,
	}
	require.NoError(t, db.Create(prior).Error)

	view, err := svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Status: statusPtr(models.CourseCompleted)})
	require.NoError(t, err)
	assert.Equal(t, "issued-earlier", view.CertificateCode)

	cert, err := svc.GetCertificate(ctx, view.CertificateCode)
	require.NoError(t, err)
	assert.Equal(t, course.ID, cert.CourseID)

	var n int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpdateCourseProgressValidation(t *testing.T) {
	d, db, _ := newTestDeps(t)
	svc := NewCourseService(d)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, _ := testutil.SeedCourse(t, db, 100)

	_, err := svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Progress: intPtr(101)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Status: statusPtr("archived")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateCourseProgress(ctx, user.ID, course.ID, CourseUpdate{Progress: intPtr(5)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateCourseProgress(ctx, user.ID, course.ID+9, CourseUpdate{Progress: intPtr(5)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCourseAndEnrollmentCounts(t *testing.T) {
	d, db, _ := newTestDeps(t)
	courses := NewCourseService(d)
	progress := NewProgressService(d, nil)
	quiz := NewQuizService(d)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, module := testutil.SeedCourse(t, db, 100)
	first := testutil.SeedLesson(t, db, module.ID, 0)
	testutil.SeedLesson(t, db, module.ID, 0)

	detail, err := courses.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Modules, 1)
	assert.Len(t, detail.Modules[0].Lessons, 2)

	_, err = courses.Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)

	for _, s := range []models.Section{models.SectionIntro, models.SectionVideo, models.SectionPractice} {
		_, err := progress.UpdateSectionProgress(ctx, user.ID, first.ID, s, true)
		require.NoError(t, err)
	}
	// a lesson without questions can never pass its test
	res, err := quiz.SubmitQuiz(ctx, user.ID, first.ID, map[uint]uint{})
	require.NoError(t, err)
	assert.False(t, res.Passed)

	view, err := courses.GetEnrollment(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.LessonsTotal)
	assert.Zero(t, view.LessonsCompleted)

	page, err := courses.ListCourses(ctx, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 100, page.Limit)
}
