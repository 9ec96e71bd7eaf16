package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voxscribe/transcribe-relay/domain/entities"
	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

// CollectionName is the collection transcriptions are stored in
const CollectionName = "transcriptions"

// TranscriptionRepository implements TranscriptionRepository on a MongoDB collection
type TranscriptionRepository struct {
	collection *mongo.Collection
}

// NewTranscriptionRepository creates a new MongoDB transcription repository
func NewTranscriptionRepository(db *mongo.Database) repositories.TranscriptionRepository {
	return &TranscriptionRepository{
		collection: db.Collection(CollectionName),
	}
}

// EnsureIndexes creates the created_at index used to list recent transcriptions
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create transcription indexes: %w", err)
	}
	return nil
}

// Insert implements repositories.TranscriptionRepository
func (r *TranscriptionRepository) Insert(ctx context.Context, transcription *entities.Transcription) ([]*entities.Transcription, error) {
	if transcription == nil {
		return nil, errors.New("transcription cannot be nil")
	}
	if err := transcription.Validate(); err != nil {
		return nil, err
	}

	row := *transcription
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	doc := bson.M{
		"file_url":      row.FileURL,
		"transcription": row.Text,
		"created_at":    row.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transcription: %w", err)
	}

	// Set the generated ID on the returned row
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		row.ID = oid.Hex()
	}

	return []*entities.Transcription{&row}, nil
}
