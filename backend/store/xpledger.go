package store

import (
	"context"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type XPLedgerRepo interface {
	// Record inserts the entry unless (user, source, source_id) already exists.
	// It reports whether a row was written.
	Record(ctx context.Context, tx *gorm.DB, entry *models.XPTransaction) (bool, error)
}

type xpLedgerRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewXPLedgerRepo(db *gorm.DB, baseLog *zap.SugaredLogger) XPLedgerRepo {
	return &xpLedgerRepo{db: db, log: baseLog.With("repo", "XPLedgerRepo")}
}

func (r *xpLedgerRepo) Record(ctx context.Context, tx *gorm.DB, entry *models.XPTransaction) (bool, error) {
	res := pick(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Warnw("duplicate xp credit skipped",
			"user_id", entry.UserID,
			"source", entry.Source,
			"source_id", entry.SourceID,
		)
		return false, nil
	}
	return true, nil
}
