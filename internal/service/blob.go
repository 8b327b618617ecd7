package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
	"github.com/templui/intake/internal/storage"
	"github.com/templui/intake/internal/telemetry"
	"github.com/templui/intake/internal/validation"
)

type BlobService struct {
	store  storage.BlobStore
	tracer trace.Tracer
}

func NewBlobService(store storage.BlobStore) *BlobService {
	return &BlobService{
		store:  store,
		tracer: telemetry.Tracer(),
	}
}

// UploadAll stores every file concurrently and waits for all of them.
// The first failure is returned; files that completed are kept.
func (s *BlobService) UploadAll(ctx context.Context, headers []*multipart.FileHeader) ([]*model.StoredFile, error) {
	ctx, span := s.tracer.Start(ctx, "blob.upload_all",
		trace.WithAttributes(attribute.Int("blob.count", len(headers))))
	var err error
	defer func() { endSpan(span, err) }()

	files := make([]*model.StoredFile, len(headers))

	// No derived context: a failure must not cancel uploads already in flight
	var g errgroup.Group
	for i, header := range headers {
		i, header := i, header
		g.Go(func() error {
			file, err := s.upload(ctx, header)
			if err != nil {
				slog.Warn("upload failed", "filename", header.Filename, "error", err)
				return err
			}
			files[i] = file
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *BlobService) upload(ctx context.Context, header *multipart.FileHeader) (*model.StoredFile, error) {
	ctx, span := s.tracer.Start(ctx, "blob.upload",
		trace.WithAttributes(
			attribute.String("blob.filename", header.Filename),
			attribute.Int64("blob.size", header.Size),
		))
	var err error
	defer func() { endSpan(span, err) }()

	src, err := header.Open()
	if err != nil {
		err = apperr.Wrap(apperr.KindStoreWrite, "open uploaded part", err)
		return nil, err
	}
	defer src.Close()

	contentType := validation.ContentType(header.Filename, header.Header.Get("Content-Type"))

	file, err := s.store.Upload(ctx, header.Filename, contentType, src)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", header.Filename, err)
	}

	slog.Debug("file uploaded", "filename", file.Filename, "id", file.ID, "size", file.Size)
	return file, nil
}

// Download opens a stream over the first file named filename. The stream is
// opened before returning so callers can fail cleanly before writing a
// response.
func (s *BlobService) Download(ctx context.Context, filename string) (*storage.Stream, error) {
	ctx, span := s.tracer.Start(ctx, "blob.download",
		trace.WithAttributes(attribute.String("blob.filename", filename)))
	var err error
	defer func() { endSpan(span, err) }()

	stream := s.store.Download(ctx, filename)
	if err = stream.Open(); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return stream, nil
}

// Delete removes the first file named filename.
func (s *BlobService) Delete(ctx context.Context, filename string) error {
	ctx, span := s.tracer.Start(ctx, "blob.delete",
		trace.WithAttributes(attribute.String("blob.filename", filename)))
	var err error
	defer func() { endSpan(span, err) }()

	err = s.store.Delete(ctx, filename)
	return err
}
