package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const leaderboardKey = "leaderboard:xp"

type Entry struct {
	UserID uint
	XP     int
}

// Leaderboard mirrors user XP totals for fast top-N reads. The database stays
// the source of truth.
type Leaderboard interface {
	SetXP(ctx context.Context, userID uint, xp int) error
	Top(ctx context.Context, limit int) ([]Entry, error)
	Remove(ctx context.Context, userID uint) error
	// Count is the number of users in the mirror.
	Count(ctx context.Context) (int64, error)
	Enabled() bool
}

func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

type redisLeaderboard struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewLeaderboard returns a disabled leaderboard when client is nil.
func NewLeaderboard(client *redis.Client, log *zap.SugaredLogger) Leaderboard {
	if client == nil {
		return noopLeaderboard{}
	}
	return &redisLeaderboard{client: client, log: log.Named("leaderboard")}
}

func (l *redisLeaderboard) Enabled() bool { return true }

func (l *redisLeaderboard) SetXP(ctx context.Context, userID uint, xp int) error {
	return l.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
}

func (l *redisLeaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	zs, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			l.log.Warnw("bad leaderboard member", "member", member)
			continue
		}
		entries = append(entries, Entry{UserID: uint(id), XP: int(z.Score)})
	}
	return entries, nil
}

func (l *redisLeaderboard) Remove(ctx context.Context, userID uint) error {
	return l.client.ZRem(ctx, leaderboardKey, strconv.FormatUint(uint64(userID), 10)).Err()
}

func (l *redisLeaderboard) Count(ctx context.Context) (int64, error) {
	return l.client.ZCard(ctx, leaderboardKey).Result()
}

type noopLeaderboard struct{}

func (noopLeaderboard) Enabled() bool { return false }
func (noopLeaderboard) SetXP(context.Context, uint, int) error { return nil }
func (noopLeaderboard) Top(context.Context, int) ([]Entry, error) { return nil, nil }
func (noopLeaderboard) Remove(context.Context, uint) error { return nil }
func (noopLeaderboard) Count(context.Context) (int64, error) { return 0, nil }
