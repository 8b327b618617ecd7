package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
)

// DefaultChunkSize matches the GridFS default of 255 KiB.
const DefaultChunkSize = 255 * 1024

// SQLStore keeps blobs in GridFS-style tables: one blob_files row per object
// and its bytes split across numbered blob_chunks rows.
type SQLStore struct {
	db        *sqlx.DB
	chunkSize int
}

func NewSQLStore(db *sqlx.DB, chunkSize int) *SQLStore {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &SQLStore{db: db, chunkSize: chunkSize}
}

// Upload writes every chunk and then the file row in one transaction, so the
// object only becomes visible once it is complete.
func (s *SQLStore) Upload(ctx context.Context, filename, contentType string, src io.Reader) (*model.StoredFile, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "generate blob id", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "begin upload", err)
	}
	defer tx.Rollback()

	insertChunk := s.db.Rebind(`INSERT INTO blob_chunks (files_id, n, data) VALUES (?, ?, ?)`)

	buf := make([]byte, s.chunkSize)
	var size int64
	for n := 0; ; n++ {
		k, readErr := io.ReadFull(src, buf)
		if k > 0 {
			if _, err := tx.ExecContext(ctx, insertChunk, id.String(), n, buf[:k]); err != nil {
				return nil, apperr.Wrap(apperr.KindStoreWrite, "write chunk", err)
			}
			size += int64(k)
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return nil, apperr.Wrap(apperr.KindStoreWrite, "read upload", readErr)
		}
	}

	file := &model.StoredFile{
		ID:          id.String(),
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		ChunkSize:   int64(s.chunkSize),
		UploadDate:  time.Now().UTC(),
	}

	query := `INSERT INTO blob_files (id, filename, content_type, length, chunk_size, upload_date)
		VALUES (:id, :filename, :content_type, :length, :chunk_size, :upload_date)`
	if _, err := tx.NamedExecContext(ctx, query, file); err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "write file record", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "commit upload", err)
	}
	return file, nil
}

func (s *SQLStore) Download(ctx context.Context, filename string) *Stream {
	return NewStream(ctx, func(ctx context.Context) (io.ReadCloser, *model.StoredFile, error) {
		file := &model.StoredFile{}
		query := s.db.Rebind(`SELECT id, filename, content_type, length, chunk_size, upload_date
			FROM blob_files WHERE filename = ? ORDER BY seq LIMIT 1`)
		err := s.db.GetContext(ctx, file, query, filename)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("file not found: %s", filename)
		}
		if err != nil {
			return nil, nil, err
		}
		return newChunkReader(ctx, s.db, file), file, nil
	})
}

func (s *SQLStore) Delete(ctx context.Context, filename string) error {
	var ids []string
	query := s.db.Rebind(`SELECT id FROM blob_files WHERE filename = ? ORDER BY seq`)
	if err := s.db.SelectContext(ctx, &ids, query, filename); err != nil {
		return LookupFailure(err)
	}
	if len(ids) == 0 {
		return apperr.New(apperr.KindNotFound, "no blob named "+filename)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "begin delete", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM blob_files WHERE id = ?`), ids[0])
	if err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "delete file record", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "delete file record", err)
	}
	if rows == 0 {
		// Removed by a concurrent delete between lookup and delete
		return apperr.New(apperr.KindNotFound, "no blob named "+filename)
	}

	if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM blob_chunks WHERE files_id = ?`), ids[0]); err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "delete chunks", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "commit delete", err)
	}
	return nil
}

// chunkReader fetches one chunk per refill.
type chunkReader struct {
	ctx    context.Context
	db     *sqlx.DB
	query  string
	fileID string
	next   int
	total  int
	buf    []byte
}

func newChunkReader(ctx context.Context, db *sqlx.DB, file *model.StoredFile) *chunkReader {
	total := 0
	if file.Size > 0 && file.ChunkSize > 0 {
		total = int((file.Size + file.ChunkSize - 1) / file.ChunkSize)
	}
	return &chunkReader{
		ctx:    ctx,
		db:     db,
		query:  db.Rebind(`SELECT data FROM blob_chunks WHERE files_id = ? AND n = ?`),
		fileID: file.ID,
		total:  total,
	}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.next >= r.total {
			return 0, io.EOF
		}
		var data []byte
		err := r.db.GetContext(r.ctx, &data, r.query, r.fileID, r.next)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("chunk %d of %s is missing", r.next, r.fileID)
		}
		if err != nil {
			return 0, err
		}
		r.buf = data
		r.next++
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *chunkReader) Close() error {
	r.buf = nil
	r.next = r.total
	return nil
}
