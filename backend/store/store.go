// Package store holds the data-access repos. Every method takes (ctx, tx);
// a nil tx runs against the root handle.
package store

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store struct {
	Progress     ProgressRepo
	Catalog      CatalogRepo
	Users        UserRepo
	Ledger       XPLedgerRepo
	Enrollments  EnrollmentRepo
	Certificates CertificateRepo
	Answers      AnswerRepo
	Reactions    ReactionRepo
	Comments     CommentRepo
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{
		Progress:     NewProgressRepo(db, log),
		Catalog:      NewCatalogRepo(db, log),
		Users:        NewUserRepo(db, log),
		Ledger:       NewXPLedgerRepo(db, log),
		Enrollments:  NewEnrollmentRepo(db, log),
		Certificates: NewCertificateRepo(db, log),
		Answers:      NewAnswerRepo(db, log),
		Reactions:    NewReactionRepo(db, log),
		Comments:     NewCommentRepo(db, log),
	}
}

func pick(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
