package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BlobDriverGridFS = "gridfs"
	BlobDriverS3     = "s3"
	BlobDriverSQL    = "sql"

	SubmissionDriverMongo = "mongo"
	SubmissionDriverSQL   = "sql"
)

type Config struct {
	// Application
	AppName string `env:"APP_NAME" envDefault:"intake"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"5000"`

	// MongoDB (GridFS blobs and/or submissions)
	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"intake"`

	// Backend selection
	BlobDriver       string `env:"BLOB_DRIVER" envDefault:"gridfs"`
	BlobBucket       string `env:"BLOB_BUCKET" envDefault:"uploads"`
	BlobChunkSize    int32  `env:"BLOB_CHUNK_SIZE" envDefault:"261120"` // GridFS default, 255 KiB
	SubmissionDriver string `env:"SUBMISSION_DRIVER" envDefault:"mongo"`

	// SQL database for the sql drivers
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBConnection string `env:"DB_CONNECTION" envDefault:"./data/intake.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"`

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Endpoint  string `env:"S3_ENDPOINT"` // Optional: for non-AWS providers

	// Uploads
	MaxUploadMemory int64 `env:"MAX_UPLOAD_MEMORY" envDefault:"33554432"` // 32 MiB, the rest spills to disk

	// Observability (optional)
	SentryDSN    string `env:"SENTRY_DSN"`
	GelfAddr     string `env:"LOG_GELF_ADDR"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads the configuration and validates every selected backend.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads an optional .env file, then parses the environment without
// validating it.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ValidateSQL checks only the SQL database settings, for tools that never
// touch the other backends.
func (c *Config) ValidateSQL() error {
	if c.DBDriver != "sqlite" && c.DBDriver != "pgx" {
		return fmt.Errorf("DB_DRIVER %q is not one of sqlite, pgx", c.DBDriver)
	}
	if c.DBConnection == "" {
		return errors.New("DB_CONNECTION is required")
	}
	return nil
}

// Validate rejects unknown drivers and missing connection settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.BlobDriver {
	case BlobDriverGridFS, BlobDriverS3, BlobDriverSQL:
	default:
		errs = append(errs, fmt.Errorf("BLOB_DRIVER %q is not one of gridfs, s3, sql", c.BlobDriver))
	}

	switch c.SubmissionDriver {
	case SubmissionDriverMongo, SubmissionDriverSQL:
	default:
		errs = append(errs, fmt.Errorf("SUBMISSION_DRIVER %q is not one of mongo, sql", c.SubmissionDriver))
	}

	if c.NeedsMongo() && c.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required for the gridfs and mongo drivers"))
	}

	if c.NeedsSQL() && c.DBDriver != "sqlite" && c.DBDriver != "pgx" {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of sqlite, pgx", c.DBDriver))
	}

	if c.BlobDriver == BlobDriverS3 && c.BlobBucket == "" {
		errs = append(errs, errors.New("BLOB_BUCKET is required for the s3 driver"))
	}

	if c.BlobChunkSize <= 0 {
		errs = append(errs, errors.New("BLOB_CHUNK_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// NeedsMongo reports whether any selected backend lives in MongoDB.
func (c *Config) NeedsMongo() bool {
	return c.BlobDriver == BlobDriverGridFS || c.SubmissionDriver == SubmissionDriverMongo
}

// NeedsSQL reports whether any selected backend lives in the SQL database.
func (c *Config) NeedsSQL() bool {
	return c.BlobDriver == BlobDriverSQL || c.SubmissionDriver == SubmissionDriverSQL
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
