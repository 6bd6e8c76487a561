package services

import (
	"testing"

	"akatsuki/backend/events"
	"akatsuki/backend/models"
	"akatsuki/backend/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDeps(t *testing.T) (Deps, *gorm.DB, *events.MockPublisher) {
	t.Helper()
	db := testutil.DB(t)
	pub := events.NewMockPublisher()
	return NewDeps(db, testutil.Config(), testutil.Logger(), pub, nil), db, pub
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	return &u
}

func ledgerRows(t *testing.T, db *gorm.DB, userID uint) []models.XPTransaction {
	t.Helper()
	var rows []models.XPTransaction
	require.NoError(t, db.Where("user_id = ?", userID).Order("id").Find(&rows).Error)
	return rows
}
