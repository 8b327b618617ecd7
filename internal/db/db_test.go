package db

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestInitAndMigrateSQLite(t *testing.T) {
	conn := filepath.Join(t.TempDir(), "data", "intake.db")
	db, err := Init("sqlite", conn)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close(db)

	if err := RunMigrations(db.DB, "sqlite"); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	for _, table := range []string{"blob_files", "blob_chunks", "submissions"} {
		var n int
		err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err != nil {
			t.Fatalf("query %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}

	// Up is idempotent
	if err := RunMigrations(db.DB, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
}

func TestRunMigrationsUnknownDriver(t *testing.T) {
	if err := RunMigrations(nil, "mysql"); err == nil {
		t.Fatal("expected error for driver without migrations")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("constraint failed: UNIQUE constraint failed: submissions.email (2067)"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "submissions_email_key"`), true},
		{errors.New("no such table"), false},
	}
	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err); got != tt.want {
			t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWithBusyTimeout(t *testing.T) {
	tests := []struct {
		conn string
		want string
	}{
		{"data/intake.db", "data/intake.db?_pragma=busy_timeout(5000)"},
		{"data/intake.db?_pragma=foreign_keys(1)", "data/intake.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"data/intake.db?_pragma=busy_timeout(100)", "data/intake.db?_pragma=busy_timeout(100)"},
	}

	for _, tt := range tests {
		if got := withBusyTimeout(tt.conn); got != tt.want {
			t.Errorf("withBusyTimeout(%q) = %q, want %q", tt.conn, got, tt.want)
		}
	}
}

func TestInitSQLiteSingleWriter(t *testing.T) {
	db, err := Init("sqlite", filepath.Join(t.TempDir(), "intake.db"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close(db)

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("MaxOpenConnections = %d, want 1", got)
	}

	var timeout int
	if err := db.Get(&timeout, "PRAGMA busy_timeout"); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", timeout)
	}
}
