package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/templui/intake/internal/config"
)

func sqlOnlyConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppEnv:           "development",
		BlobDriver:       config.BlobDriverSQL,
		BlobChunkSize:    1024,
		SubmissionDriver: config.SubmissionDriverSQL,
		DBDriver:         "sqlite",
		DBConnection:     filepath.Join(t.TempDir(), "intake.db"),
		MaxUploadMemory:  1 << 20,
	}
}

func TestNew_SQLOnly(t *testing.T) {
	a, err := New(context.Background(), sqlOnlyConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.DB == nil || a.Mongo != nil {
		t.Fatal("expected only the SQL database to be opened")
	}
	if a.BlobService == nil || a.SubmissionService == nil {
		t.Fatal("services not wired")
	}
}

func TestNew_UnknownBlobDriver(t *testing.T) {
	cfg := sqlOnlyConfig(t)
	cfg.BlobDriver = "ftp"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown blob driver")
	}
}
