package services

import (
	"context"
	"encoding/json"
	"fmt"

	"akatsuki/backend/cache"
	"akatsuki/backend/config"
	"akatsuki/backend/events"
	"akatsuki/backend/models"
	"akatsuki/backend/store"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deps is what every service is constructed with.
type Deps struct {
	DB          *gorm.DB
	Store       *store.Store
	Cfg         *config.Config
	Log         *zap.SugaredLogger
	Events      events.Publisher
	Leaderboard cache.Leaderboard
}

func NewDeps(db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger, pub events.Publisher, lb cache.Leaderboard) Deps {
	if pub == nil {
		pub = events.NewMockPublisher()
	}
	if lb == nil {
		lb = cache.NewLeaderboard(nil, log)
	}
	return Deps{
		DB:          db,
		Store:       store.New(db, log),
		Cfg:         cfg,
		Log:         log,
		Events:      pub,
		Leaderboard: lb,
	}
}

// creditXP appends the ledger row and bumps users.xp in tx. It returns
// credited=false without touching the balance when the ledger already holds
// (user, source, sourceID).
func (d Deps) creditXP(ctx context.Context, tx *gorm.DB, userID uint, source string, sourceID uint, amount int, meta map[string]interface{}) (bool, int, error) {
	var raw datatypes.JSON
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return false, 0, err
		}
		raw = datatypes.JSON(b)
	}

	inserted, err := d.Store.Ledger.Record(ctx, tx, &models.XPTransaction{
		UserID:   userID,
		Source:   source,
		SourceID: sourceID,
		Amount:   amount,
		Metadata: raw,
	})
	if err != nil {
		return false, 0, fmt.Errorf("record xp ledger: %w", err)
	}
	if !inserted {
		return false, 0, nil
	}

	total, err := d.Store.Users.CreditXP(ctx, tx, userID, amount)
	if err != nil {
		return false, 0, fmt.Errorf("credit user xp: %w", err)
	}
	return true, total, nil
}

// afterCommit runs the post-transaction side effects. Failures are logged only.
func (d Deps) afterCommit(ctx context.Context, userID uint, totalXP int, ev *events.Event) {
	if totalXP > 0 {
		if err := d.Leaderboard.SetXP(ctx, userID, totalXP); err != nil {
			d.Log.Warnw("leaderboard update failed", "user_id", userID, "error", err)
		}
	}
	if ev != nil {
		if err := d.Events.Publish(ctx, *ev); err != nil {
			d.Log.Warnw("event publish failed", "type", ev.Type, "user_id", userID, "error", err)
		}
	}
}
