// Package repotest provides an in-memory store for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/bistro_boss/internal/repo"
)

// NewSQLite returns a migrated GormRepo backed by a private in-memory SQLite
// database. The pool is pinned to one connection because every new
// connection to ":memory:" opens an empty database.
func NewSQLite(t testing.TB) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	r := &repo.GormRepo{DB: db}
	if err := r.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() { _ = r.Close(context.Background()) })
	return r
}
