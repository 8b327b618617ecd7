// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/templui/intake/internal/db"
)

// SQLite returns a migrated database in a temp dir, closed on cleanup.
func SQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	conn := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := db.Init("sqlite", conn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(sqlDB) })

	if err := db.RunMigrations(sqlDB.DB, "sqlite"); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return sqlDB
}
