package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
)

// S3Store implements BlobStore for S3-compatible storage
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
//
// Objects are keyed "<escaped filename>/<uuid v7>". Time-ordered ids make a
// prefix listing return same-named objects in upload order.
type S3Store struct {
	client *s3.Client
	bucket string
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services
}

// NewS3Store creates a new S3 storage instance
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	slog.Info("initializing S3 storage",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"endpoint", cfg.Endpoint,
	)

	store := &S3Store{
		client: client,
		bucket: cfg.Bucket,
	}

	// Auto-create bucket if it doesn't exist
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return store, nil
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil // Bucket exists
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Store) Upload(ctx context.Context, filename, contentType string, src io.Reader) (*model.StoredFile, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "generate object id", err)
	}

	body, size, err := sizedBody(src)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "read upload", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey(filename, id.String())),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreWrite, "failed to upload to S3", err)
	}

	return &model.StoredFile{
		ID:          id.String(),
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UploadDate:  time.Now().UTC(),
	}, nil
}

func (s *S3Store) Download(ctx context.Context, filename string) *Stream {
	return NewStream(ctx, func(ctx context.Context) (io.ReadCloser, *model.StoredFile, error) {
		key, err := s.firstKey(ctx, filename)
		if err != nil {
			return nil, nil, err
		}

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get object: %w", err)
		}

		file := &model.StoredFile{
			ID:          idFromKey(key),
			Filename:    filename,
			ContentType: aws.ToString(out.ContentType),
			Size:        aws.ToInt64(out.ContentLength),
			UploadDate:  aws.ToTime(out.LastModified),
		}
		return out.Body, file, nil
	})
}

func (s *S3Store) Delete(ctx context.Context, filename string) error {
	key, err := s.firstKey(ctx, filename)
	if errors.Is(err, errNoObject) {
		return apperr.Wrap(apperr.KindNotFound, "no blob named "+filename, err)
	}
	if err != nil {
		return LookupFailure(err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperr.Wrap(apperr.KindStoreDelete, "failed to delete from S3", err)
	}
	return nil
}

var errNoObject = errors.New("object not found")

// firstKey returns the key of the earliest object stored under filename.
func (s *S3Store) firstKey(ctx context.Context, filename string) (string, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(keyPrefix(filename)),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list objects: %w", err)
	}
	if len(out.Contents) == 0 {
		return "", errNoObject
	}
	return firstObjectKey(out.Contents), nil
}

func firstObjectKey(objects []types.Object) string {
	return aws.ToString(objects[0].Key)
}

func keyPrefix(filename string) string {
	return url.PathEscape(filename) + "/"
}

func objectKey(filename, id string) string {
	return keyPrefix(filename) + id
}

func idFromKey(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// sizedBody returns a body whose length is known up front. Seekable readers
// (multipart files) are measured in place, anything else is buffered.
func sizedBody(src io.Reader) (io.Reader, int64, error) {
	if rs, ok := src.(io.ReadSeeker); ok {
		cur, err := rs.Seek(0, io.SeekCurrent)
		if err == nil {
			end, err := rs.Seek(0, io.SeekEnd)
			if err != nil {
				return nil, 0, err
			}
			if _, err := rs.Seek(cur, io.SeekStart); err != nil {
				return nil, 0, err
			}
			return rs, end - cur, nil
		}
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, src)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(buf.Bytes()), n, nil
}
