// Package testutil opens throwaway migrated databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "poolbooking_backend/internals/databases"
	userModel "poolbooking_backend/internals/features/users/user/model"
)

var seq atomic.Int64

// NewDB returns an in-memory sqlite database with every table migrated.
// It holds a single connection, so statements from parallel goroutines run
// one after another. Tests that fan out callers therefore check the store
// guards (unique indexes, conditional updates) that decide the winner, not
// real interleaving inside the database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.Open(sqlite.Open(dsn), zap.NewNop(), gormLogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

// NewUser inserts an active account with role and returns it. The password
// is not hashed; tests that log in use the directory instead.
func NewUser(t *testing.T, db *gorm.DB, role string) *userModel.UserModel {
	t.Helper()

	n := seq.Add(1)
	u := &userModel.UserModel{
		UserName: fmt.Sprintf("%s%d", role, n),
		FullName: fmt.Sprintf("Test %s %d", role, n),
		Email:    fmt.Sprintf("%s%d@uni.test", role, n),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
