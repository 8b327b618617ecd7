package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
)

// BlobStore stores binary objects keyed by a client-supplied filename.
// Filenames are not unique; lookups use the earliest upload for a name.
type BlobStore interface {
	// Upload streams src into a new object and returns its metadata.
	Upload(ctx context.Context, filename, contentType string, src io.Reader) (*model.StoredFile, error)

	// Download returns a stream over the earliest object named filename.
	// Nothing is read until the stream is opened.
	Download(ctx context.Context, filename string) *Stream

	// Delete removes the earliest object named filename.
	Delete(ctx context.Context, filename string) error
}

// lookupFailed is the message of delete errors raised while finding the
// object rather than removing it.
const lookupFailed = "find blob"

// LookupFailure wraps a Delete error raised while finding the object.
func LookupFailure(cause error) error {
	return apperr.Wrap(apperr.KindStoreDelete, lookupFailed, cause)
}

// IsLookupFailure reports whether a Delete failed while looking the object up.
func IsLookupFailure(err error) bool {
	var appErr *apperr.Error
	return errors.As(err, &appErr) && appErr.Kind == apperr.KindStoreDelete && appErr.Message == lookupFailed
}

// OpenFunc opens the underlying object of a Stream.
type OpenFunc func(ctx context.Context) (io.ReadCloser, *model.StoredFile, error)

// Stream is a lazily opened read stream. The first Open or Read resolves the
// object; a missing object or any read failure surfaces as a store read error.
type Stream struct {
	ctx  context.Context
	open OpenFunc

	once sync.Once
	rc   io.ReadCloser
	file *model.StoredFile
	err  error
}

func NewStream(ctx context.Context, open OpenFunc) *Stream {
	return &Stream{ctx: ctx, open: open}
}

// Open resolves the object. It is safe to call more than once.
func (s *Stream) Open() error {
	s.once.Do(func() {
		rc, file, err := s.open(s.ctx)
		if err != nil {
			s.err = apperr.Wrap(apperr.KindStoreRead, "open blob stream", err)
			return
		}
		s.rc, s.file = rc, file
	})
	return s.err
}

// File returns the object's metadata, or nil before a successful Open.
func (s *Stream) File() *model.StoredFile {
	return s.file
}

func (s *Stream) Read(p []byte) (int, error) {
	if err := s.Open(); err != nil {
		return 0, err
	}
	n, err := s.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, apperr.Wrap(apperr.KindStoreRead, "read blob stream", err)
	}
	return n, err
}

func (s *Stream) Close() error {
	if s.rc == nil {
		return nil
	}
	return s.rc.Close()
}

var (
	_ BlobStore = (*GridFSStore)(nil)
	_ BlobStore = (*S3Store)(nil)
	_ BlobStore = (*SQLStore)(nil)
)
