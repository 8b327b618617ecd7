package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/db/dbtest"
)

func newTestSQLStore(t *testing.T, chunkSize int) *SQLStore {
	t.Helper()
	return NewSQLStore(dbtest.SQLite(t), chunkSize)
}

func TestSQLStore_UploadDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLStore(t, 4)

	payload := []byte("exactly these eleven+ bytes")
	file, err := store.Upload(ctx, "a.txt", "text/plain", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if file.ID == "" || file.Filename != "a.txt" || file.Size != int64(len(payload)) {
		t.Fatalf("unexpected metadata: %+v", file)
	}

	stream := store.Download(ctx, "a.txt")
	defer stream.Close()

	got, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("downloaded %q, want %q", got, payload)
	}
	meta := stream.File()
	if meta.ContentType != "text/plain" || meta.ID != file.ID {
		t.Fatalf("unexpected stream metadata: %+v", meta)
	}
}

func TestSQLStore_EmptyFile(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLStore(t, 8)

	file, err := store.Upload(ctx, "empty.txt", "text/plain", strings.NewReader(""))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if file.Size != 0 {
		t.Fatalf("size = %d", file.Size)
	}
	got, err := io.ReadAll(store.Download(ctx, "empty.txt"))
	if err != nil || len(got) != 0 {
		t.Fatalf("ReadAll = %q, %v", got, err)
	}
}

func TestSQLStore_DownloadUsesEarliestUpload(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLStore(t, 0)

	if _, err := store.Upload(ctx, "dup.txt", "text/plain", strings.NewReader("first")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := store.Upload(ctx, "dup.txt", "text/plain", strings.NewReader("second")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, err := io.ReadAll(store.Download(ctx, "dup.txt"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "first" {
		t.Fatalf("got %q, want first upload", got)
	}

	// Delete removes the first match only
	if err := store.Delete(ctx, "dup.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = io.ReadAll(store.Download(ctx, "dup.txt"))
	if err != nil {
		t.Fatalf("ReadAll after delete: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("got %q, want second upload", got)
	}
}

func TestSQLStore_DownloadMissing(t *testing.T) {
	store := newTestSQLStore(t, 0)

	got, err := io.ReadAll(store.Download(context.Background(), "nope.txt"))
	if !errors.Is(err, apperr.ErrStoreRead) {
		t.Fatalf("err = %v, want store read", err)
	}
	if len(got) != 0 {
		t.Fatalf("got partial data %q", got)
	}
}

func TestSQLStore_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLStore(t, 0)

	if _, err := store.Upload(ctx, "a.txt", "text/plain", strings.NewReader("hello")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := store.Delete(ctx, "a.txt"); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	err := store.Delete(ctx, "a.txt")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want not found", err)
	}

	var chunks int
	if err := store.db.Get(&chunks, "SELECT COUNT(*) FROM blob_chunks"); err != nil {
		t.Fatalf("count chunks: %v", err)
	}
	if chunks != 0 {
		t.Fatalf("%d orphaned chunks", chunks)
	}
}

func TestSQLStore_FailedUploadLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLStore(t, 2)

	src := io.MultiReader(strings.NewReader("abcdef"), iotest.ErrReader(errors.New("client went away")))
	_, err := store.Upload(ctx, "broken.txt", "text/plain", src)
	if !errors.Is(err, apperr.ErrStoreWrite) {
		t.Fatalf("err = %v, want store write", err)
	}

	var files, chunks int
	_ = store.db.Get(&files, "SELECT COUNT(*) FROM blob_files")
	_ = store.db.Get(&chunks, "SELECT COUNT(*) FROM blob_chunks")
	if files != 0 || chunks != 0 {
		t.Fatalf("failed upload left %d files and %d chunks", files, chunks)
	}
}
