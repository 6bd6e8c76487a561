package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"akatsuki/backend/cache"
	"akatsuki/backend/models"
	"akatsuki/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLeaderboard is a sorted-set stand-in with ZADD/ZREVRANGE/ZREM/ZCARD behaviour.
type memLeaderboard struct {
	mu sync.Mutex
	xp map[uint]int
}

func newMemLeaderboard() *memLeaderboard {
	return &memLeaderboard{xp: make(map[uint]int)}
}

func (m *memLeaderboard) Enabled() bool { return true }

func (m *memLeaderboard) SetXP(_ context.Context, userID uint, xp int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.xp[userID] = xp
	return nil
}

func (m *memLeaderboard) Top(_ context.Context, limit int) ([]cache.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]cache.Entry, 0, len(m.xp))
	for id, xp := range m.xp {
		out = append(out, cache.Entry{UserID: id, XP: xp})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memLeaderboard) Remove(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.xp, userID)
	return nil
}

func (m *memLeaderboard) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.xp)), nil
}

func (m *memLeaderboard) has(userID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.xp[userID]
	return ok
}

func entryIDs(entries []LeaderboardEntry) []uint {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	return ids
}

func TestLeaderboardCacheBackfillsAndDropsInactive(t *testing.T) {
	d, db, _ := newTestDeps(t)
	lb := newMemLeaderboard()
	d.Leaderboard = lb
	courses := NewCourseService(d)
	board := NewLeaderboardService(d)
	ctx := context.Background()

	veteran := testutil.SeedUser(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", veteran.ID).Update("xp", 5000).Error)

	course, _ := testutil.SeedCourse(t, db, 100)
	quitter := testutil.SeedUser(t, db)
	finisher := testutil.SeedUser(t, db)
	for _, u := range []*models.User{quitter, finisher} {
		_, err := courses.Enroll(ctx, u.ID, course.ID)
		require.NoError(t, err)
		_, err = courses.UpdateCourseProgress(ctx, u.ID, course.ID, CourseUpdate{Status: statusPtr(models.CourseCompleted)})
		require.NoError(t, err)
	}
	require.True(t, lb.has(quitter.ID))
	require.False(t, lb.has(veteran.ID))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", quitter.ID).Update("is_active", false).Error)

	top, err := board.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{veteran.ID, finisher.ID}, entryIDs(top))
	assert.False(t, lb.has(quitter.ID))

	// the mirror is short of active users now and gets refilled
	top, err = board.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{veteran.ID, finisher.ID}, entryIDs(top))
	assert.Equal(t, 5000, top[0].XP)
	assert.Equal(t, 2, top[1].Rank)
	assert.True(t, lb.has(veteran.ID))
	assert.False(t, lb.has(quitter.ID))
}

func TestLeaderboardSync(t *testing.T) {
	d, db, _ := newTestDeps(t)
	lb := newMemLeaderboard()
	d.Leaderboard = lb
	ctx := context.Background()

	a := testutil.SeedUser(t, db)
	b := testutil.SeedUser(t, db)
	off := testutil.SeedUser(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", b.ID).Update("xp", 30).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", off.ID).Update("is_active", false).Error)

	require.NoError(t, NewLeaderboardService(d).Sync(ctx))

	n, err := lb.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	top, err := lb.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, b.ID, top[0].UserID)
	assert.Equal(t, a.ID, top[1].UserID)
}
