package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
)

// GridFSStore keeps blobs in a MongoDB GridFS bucket. The content type is
// stored in the file document's metadata.
type GridFSStore struct {
	bucket *gridfs.Bucket
	name   string
}

func NewGridFSStore(db *mongo.Database, bucketName string, chunkSize int32) (*GridFSStore, error) {
	opts := options.GridFSBucket().SetName(bucketName)
	if chunkSize > 0 {
		opts.SetChunkSizeBytes(chunkSize)
	}

	bucket, err := gridfs.NewBucket(db, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}

	slog.Info("gridfs bucket ready", "bucket", bucketName)
	return &GridFSStore{bucket: bucket, name: bucketName}, nil
}

func (s *GridFSStore) Upload(ctx context.Context, filename, contentType string, src io.Reader) (*model.StoredFile, error) {
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})

	us, err := s.bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "open upload stream", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = us.SetWriteDeadline(deadline)
	}

	n, err := io.Copy(us, src)
	if err != nil {
		// Abort removes the chunks written so far
		if abortErr := us.Abort(); abortErr != nil {
			slog.Warn("failed to abort gridfs upload", "filename", filename, "error", abortErr)
		}
		return nil, apperr.Wrap(apperr.KindStoreWrite, "write upload stream", err)
	}

	if err := us.Close(); err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "close upload stream", err)
	}

	return &model.StoredFile{
		ID:          objectIDString(us.FileID),
		Filename:    filename,
		ContentType: contentType,
		Size:        n,
		UploadDate:  time.Now().UTC(),
	}, nil
}

func (s *GridFSStore) Download(ctx context.Context, filename string) *Stream {
	return NewStream(ctx, func(ctx context.Context) (io.ReadCloser, *model.StoredFile, error) {
		// Revision 0 is the earliest upload
		ds, err := s.bucket.OpenDownloadStreamByName(filename, options.GridFSName().SetRevision(0))
		if err != nil {
			return nil, nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = ds.SetReadDeadline(deadline)
		}
		return ds, gridfsFile(ds.GetFile()), nil
	})
}

func (s *GridFSStore) Delete(ctx context.Context, filename string) error {
	opts := options.GridFSFind().SetSort(bson.D{{Key: "uploadDate", Value: 1}})
	cursor, err := s.bucket.FindContext(ctx, bson.D{{Key: "filename", Value: filename}}, opts)
	if err != nil {
		return LookupFailure(err)
	}

	var files []struct {
		ID any `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return LookupFailure(err)
	}
	if len(files) == 0 {
		return apperr.New(apperr.KindNotFound, "no blob named "+filename)
	}

	err = s.bucket.DeleteContext(ctx, files[0].ID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return apperr.Wrap(apperr.KindNotFound, "no blob named "+filename, err)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "delete blob", err)
	}
	return nil
}

func gridfsFile(f *gridfs.File) *model.StoredFile {
	contentType, _ := f.Metadata.Lookup("contentType").StringValueOK()
	return &model.StoredFile{
		ID:          objectIDString(f.ID),
		Filename:    f.Name,
		ContentType: contentType,
		Size:        f.Length,
		ChunkSize:   int64(f.ChunkSize),
		UploadDate:  f.UploadDate,
	}
}

func objectIDString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
