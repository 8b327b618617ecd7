package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/templui/intake/internal/config"
	"github.com/templui/intake/internal/db"
	"github.com/templui/intake/internal/repository"
	"github.com/templui/intake/internal/service"
	"github.com/templui/intake/internal/storage"
)

// App holds every long-lived dependency. All store handles are created in New
// before the listener starts and are never reconfigured.
type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Mongo             *mongo.Client
	BlobService       *service.BlobService
	SubmissionService *service.SubmissionService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	// Initialize databases
	var mongoDB *mongo.Database
	if cfg.NeedsMongo() {
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		a.Mongo = client
		mongoDB = database
	}

	if cfg.NeedsSQL() {
		database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = database

		// Run database migrations
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Storage
	blobStore, err := newBlobStore(ctx, cfg, mongoDB, a.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	var submissionRepository repository.SubmissionRepository
	switch cfg.SubmissionDriver {
	case config.SubmissionDriverMongo:
		submissionRepository = repository.NewMongoSubmissionRepository(mongoDB)
	default:
		submissionRepository = repository.NewSubmissionRepository(a.DB)
	}

	err = submissionRepository.EnsureIndexes(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// Services
	a.BlobService = service.NewBlobService(blobStore)
	a.SubmissionService = service.NewSubmissionService(submissionRepository)

	return a, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config, mongoDB *mongo.Database, sqlDB *sqlx.DB) (storage.BlobStore, error) {
	switch cfg.BlobDriver {
	case config.BlobDriverGridFS:
		return storage.NewGridFSStore(mongoDB, cfg.BlobBucket, cfg.BlobChunkSize)
	case config.BlobDriverS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.BlobBucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	case config.BlobDriverSQL:
		return storage.NewSQLStore(sqlDB, int(cfg.BlobChunkSize)), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}

func (a *App) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if a.Mongo != nil {
		if mongoErr := db.DisconnectMongo(a.Mongo); mongoErr != nil && err == nil {
			err = mongoErr
		}
	}
	return err
}
