package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
	"github.com/templui/intake/internal/validation"
)

// SubmissionCollection is the MongoDB collection holding submissions.
const SubmissionCollection = "submissions"

type mongoSubmissionRepository struct {
	coll *mongo.Collection
}

func NewMongoSubmissionRepository(db *mongo.Database) SubmissionRepository {
	return &mongoSubmissionRepository{coll: db.Collection(SubmissionCollection)}
}

func (r *mongoSubmissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	if err := validation.ValidateSubmission(sub); err != nil {
		return nil, err
	}

	doc := *sub
	doc.ID = "" // let the server assign an ObjectID
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Wrap(apperr.KindDuplicateKey, "email already exists", err)
		}
		return nil, apperr.Wrap(apperr.KindStoreWrite, "insert submission", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid.Hex()
	} else {
		doc.ID = fmt.Sprint(res.InsertedID)
	}
	return &doc, nil
}

// EnsureIndexes creates the unique email index. Uniqueness is enforced by the
// index, never by a read before the insert.
func (r *mongoSubmissionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}
