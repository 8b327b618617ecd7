package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/db"
	"github.com/templui/intake/internal/model"
	"github.com/templui/intake/internal/validation"
)

type SubmissionRepository interface {
	// Create validates and stores a submission. The email must be unique.
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)
	// EnsureIndexes prepares store-side constraints before serving.
	EnsureIndexes(ctx context.Context) error
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	if err := validation.ValidateSubmission(sub); err != nil {
		return nil, err
	}

	row := *sub
	row.ID = uuid.NewString()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO submissions (id, first_name, last_name, email, date_of_birth,
	          residential_street1, residential_street2, same_as_residential,
	          permanent_street1, permanent_street2, documents, created_at)
	          VALUES (:id, :first_name, :last_name, :email, :date_of_birth,
	          :residential_street1, :residential_street2, :same_as_residential,
	          :permanent_street1, :permanent_street2, :documents, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, &row)
	if err != nil {
		// Check for unique constraint violation (SQLite or PostgreSQL)
		if db.IsUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.KindDuplicateKey, "email already exists", err)
		}
		return nil, apperr.Wrap(apperr.KindStoreWrite, "insert submission", err)
	}

	return &row, nil
}

// EnsureIndexes is a no-op: the UNIQUE(email) constraint ships with the migrations.
func (r *submissionRepository) EnsureIndexes(context.Context) error {
	return nil
}
