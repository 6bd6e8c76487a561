// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"akatsuki/backend/config"
	"akatsuki/backend/models"
	"akatsuki/backend/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

// DB opens a fresh migrated SQLite database. It runs on one connection, so code
// under test must only touch the tx it was handed inside a transaction.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, utils.Migrate(db))
	return db
}

func Logger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func Config() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		JWTTTLHours:  1,
		AMQPExchange: "learning.events",
		Rewards:      config.DefaultRewards(),
	}
}

func next() int64 {
	return seq.Add(1)
}

func SeedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := next()
	u := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		Nickname:     fmt.Sprintf("user%d", n),
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedCourse creates a course with a single module.
func SeedCourse(t *testing.T, db *gorm.DB, xpReward int) (*models.Course, *models.Module) {
	t.Helper()
	n := next()
	c := &models.Course{
		Title:       fmt.Sprintf("Course %d", n),
		Description: "description",
		Duration:    60,
		XPReward:    xpReward,
	}
	require.NoError(t, db.Create(c).Error)

	m := &models.Module{CourseID: c.ID, Title: "Module 1", SequenceOrder: 1}
	require.NoError(t, db.Create(m).Error)
	return c, m
}

func SeedLesson(t *testing.T, db *gorm.DB, moduleID uint, xpReward int) *models.Lesson {
	t.Helper()
	n := next()
	l := &models.Lesson{
		ModuleID:             moduleID,
		Title:                fmt.Sprintf("Lesson %d", n),
		IntroTitle:           "Intro",
		IntroContent:         "intro content",
		VideoURL:             "https://video.example.com/1",
		PracticeInstructions: "write a function",
		SequenceOrder:        int(n),
		XPReward:             xpReward,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

// SeedQuestion creates a question with one correct and one wrong option.
func SeedQuestion(t *testing.T, db *gorm.DB, lessonID uint) (q *models.TestQuestion, correct, wrong *models.TestOption) {
	t.Helper()
	n := next()
	q = &models.TestQuestion{LessonID: lessonID, Question: fmt.Sprintf("Question %d?", n), SequenceOrder: int(n)}
	require.NoError(t, db.Create(q).Error)

	correct = &models.TestOption{QuestionID: q.ID, Text: "right", IsCorrect: true, SequenceOrder: 1}
	wrong = &models.TestOption{QuestionID: q.ID, Text: "wrong", SequenceOrder: 2}
	require.NoError(t, db.Create(correct).Error)
	require.NoError(t, db.Create(wrong).Error)
	return q, correct, wrong
}
