package services

import (
	"context"
	"testing"

	"akatsuki/backend/models"
	"akatsuki/backend/store"
	"akatsuki/backend/testutil"
	"akatsuki/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterAndLogin(t *testing.T) {
	d, _, _ := newTestDeps(t)
	svc := NewUserService(d, NewCourseService(d))
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ada@Example.com", "ada", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, u.IsActive)

	_, err = svc.Register(ctx, "other@example.com", "ada", "s3cret-pass")
	assert.ErrorIs(t, err, ErrConflict)

	token, me, err := svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	id, err := utils.ParseUserID(token, d.Cfg)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// lateCheckUsers lets a registration pass the existence check as if a
// concurrent request inserted the same email right after it.
type lateCheckUsers struct {
	store.UserRepo
}

func (lateCheckUsers) ExistsByEmailOrNickname(context.Context, *gorm.DB, string, string) (bool, error) {
	return false, nil
}

func TestRegisterDuplicateAfterCheckIsConflict(t *testing.T) {
	d, _, _ := newTestDeps(t)
	d.Store.Users = lateCheckUsers{UserRepo: d.Store.Users}
	svc := NewUserService(d, NewCourseService(d))
	ctx := context.Background()

	_, err := svc.Register(ctx, "grace@example.com", "grace", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Grace@example.com", "grace2", "s3cret-pass")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, "hopper@example.com", "grace", "s3cret-pass")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProfileAndLeaderboard(t *testing.T) {
	d, db, _ := newTestDeps(t)
	courses := NewCourseService(d)
	users := NewUserService(d, courses)
	board := NewLeaderboardService(d)
	ctx := context.Background()

	low := testutil.SeedUser(t, db)
	high := testutil.SeedUser(t, db)
	course, _ := testutil.SeedCourse(t, db, 120)
	_, err := courses.Enroll(ctx, high.ID, course.ID)
	require.NoError(t, err)
	_, err = d.Store.Users.CreditXP(ctx, nil, low.ID, 5)
	require.NoError(t, err)

	_, err = courses.UpdateCourseProgress(ctx, high.ID, course.ID, CourseUpdate{Status: statusPtr(models.CourseCompleted)})
	require.NoError(t, err)

	profile, err := users.GetProfile(ctx, high.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, profile.XP)
	require.Len(t, profile.Enrollments, 1)
	assert.Equal(t, course.Title, profile.Enrollments[0].CourseTitle)

	top, err := board.Top(ctx, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(top), 2)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, high.ID, top[0].UserID)
	assert.Equal(t, low.ID, top[1].UserID)

	ok, err := users.Active(ctx, high.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = users.Active(ctx, 4242)
	require.NoError(t, err)
	assert.False(t, ok)
}
