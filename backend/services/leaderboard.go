package services

import (
	"context"
)

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	// Sync writes every active user's XP into the cache mirror.
	Sync(ctx context.Context) error
}

type leaderboardService struct {
	Deps
}

func NewLeaderboardService(d Deps) LeaderboardService {
	return &leaderboardService{Deps: d}
}

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
	syncPageSize           = 500
)

// Top reads from the Redis mirror when it is usable and falls back to the database.
func (s *leaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	if s.Leaderboard.Enabled() {
		entries, err := s.fromCache(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.Log.Warnw("leaderboard cache read failed, using database", "error", err)
		}
	}

	users, err := s.Store.Users.TopByXP(ctx, nil, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{Rank: i + 1, UserID: u.ID, Nickname: u.Nickname, XP: u.XP})
	}
	return out, nil
}

func (s *leaderboardService) Sync(ctx context.Context) error {
	if !s.Leaderboard.Enabled() {
		return nil
	}
	var after uint
	synced := 0
	for {
		users, err := s.Store.Users.ListActiveAfter(ctx, nil, after, syncPageSize)
		if err != nil {
			return err
		}
		for _, u := range users {
			if err := s.Leaderboard.SetXP(ctx, u.ID, u.XP); err != nil {
				return err
			}
			after = u.ID
		}
		synced += len(users)
		if len(users) < syncPageSize {
			break
		}
	}
	s.Log.Infow("leaderboard synced", "users", synced)
	return nil
}

// fromCache returns nil entries when the mirror held stale members. Those are
// evicted and the caller reads the database instead.
func (s *leaderboardService) fromCache(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	cached, err := s.Leaderboard.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.Store.Users.CountActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	if cached < active {
		if err := s.Sync(ctx); err != nil {
			return nil, err
		}
	}

	top, err := s.Leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(top))
	for _, e := range top {
		ids = append(ids, e.UserID)
	}
	users, err := s.Store.Users.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	nick := make(map[uint]string, len(users))
	for _, u := range users {
		if u.IsActive {
			nick[u.ID] = u.Nickname
		}
	}

	out := make([]LeaderboardEntry, 0, len(top))
	stale := false
	for _, e := range top {
		name, ok := nick[e.UserID]
		if !ok {
			stale = true
			if err := s.Leaderboard.Remove(ctx, e.UserID); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, LeaderboardEntry{Rank: len(out) + 1, UserID: e.UserID, Nickname: name, XP: e.XP})
	}
	if stale {
		return nil, nil
	}
	return out, nil
}
