package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/templui/intake/internal/model"
	"github.com/templui/intake/internal/repository"
	"github.com/templui/intake/internal/telemetry"
	"github.com/templui/intake/internal/validation"
)

type SubmissionService struct {
	repo   repository.SubmissionRepository
	tracer trace.Tracer
}

func NewSubmissionService(repo repository.SubmissionRepository) *SubmissionService {
	return &SubmissionService{
		repo:   repo,
		tracer: telemetry.Tracer(),
	}
}

// Submit parses the request body and stores the submission.
func (s *SubmissionService) Submit(ctx context.Context, in *model.SubmissionInput) (*model.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "submission.create")
	var err error
	defer func() { endSpan(span, err) }()

	sub, err := validation.ParseSubmission(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}

	slog.Info("submission created", "id", created.ID, "documents", len(created.Documents))
	return created, nil
}
