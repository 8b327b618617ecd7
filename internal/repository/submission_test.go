package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/db/dbtest"
	"github.com/templui/intake/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func newSubmission(email string, docs int) *model.Submission {
	sub := &model.Submission{
		FirstName:          "Ada",
		LastName:           "Lovelace",
		Email:              email,
		DateOfBirth:        time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		ResidentialStreet1: "1 Analytical Way",
		SameAsResidential:  boolPtr(true),
	}
	for i := 0; i < docs; i++ {
		sub.Documents = append(sub.Documents, model.DocumentRef{
			FileName: "doc.pdf",
			FileType: model.FileTypePDF,
			File:     model.TextPayload("doc.pdf"),
		})
	}
	return sub
}

func countSubmissions(t *testing.T, repo *submissionRepository) int {
	t.Helper()
	var n int
	if err := repo.db.Get(&n, "SELECT COUNT(*) FROM submissions"); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSubmissionRepository_Create(t *testing.T) {
	repo := NewSubmissionRepository(dbtest.SQLite(t)).(*submissionRepository)
	ctx := context.Background()

	created, err := repo.Create(ctx, newSubmission("ada@example.com", 2))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("id and createdAt must be assigned: %+v", created)
	}

	var got model.Submission
	if err := repo.db.Get(&got, "SELECT * FROM submissions WHERE id = ?", created.ID); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Email != "ada@example.com" || len(got.Documents) != 2 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.SameAsResidential == nil || !*got.SameAsResidential {
		t.Fatalf("sameAsResidential = %v", got.SameAsResidential)
	}
	if got.Documents[1].File != model.TextPayload("doc.pdf") {
		t.Fatalf("payload = %+v", got.Documents[1].File)
	}
	if !got.DateOfBirth.Equal(created.DateOfBirth) {
		t.Fatalf("dateOfBirth = %v, want %v", got.DateOfBirth, created.DateOfBirth)
	}
}

func TestSubmissionRepository_TooFewDocuments(t *testing.T) {
	repo := NewSubmissionRepository(dbtest.SQLite(t)).(*submissionRepository)

	_, err := repo.Create(context.Background(), newSubmission("one@example.com", 1))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if !strings.Contains(err.Error(), "At least two documents are required") {
		t.Fatalf("error does not mention the minimum: %v", err)
	}
	if n := countSubmissions(t, repo); n != 0 {
		t.Fatalf("%d rows persisted after a validation failure", n)
	}
}

func TestSubmissionRepository_DuplicateEmail(t *testing.T) {
	repo := NewSubmissionRepository(dbtest.SQLite(t)).(*submissionRepository)
	ctx := context.Background()

	if _, err := repo.Create(ctx, newSubmission("dup@example.com", 2)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := repo.Create(ctx, newSubmission("dup@example.com", 3))
	if !errors.Is(err, apperr.ErrDuplicateKey) {
		t.Fatalf("err = %v, want duplicate key", err)
	}
	if n := countSubmissions(t, repo); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestSubmissionRepository_EnsureIndexesNoop(t *testing.T) {
	repo := NewSubmissionRepository(dbtest.SQLite(t))
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
}
