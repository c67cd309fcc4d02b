package repositories

import (
	"context"
	"time"

	"github.com/anonto42/engagement/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DriftRepository keeps a log of counter deltas that could not be applied
type DriftRepository interface {
	RecordDrift(ctx context.Context, entry *models.DriftEntry) error
	PendingPostIDs(ctx context.Context) ([]string, error)
	ClearDrift(ctx context.Context, postIDs []string) error
}

// MongoDriftRepository implements DriftRepository for MongoDB
type MongoDriftRepository struct {
	collection *mongo.Collection
}

// NewMongoDriftRepository creates a new MongoDriftRepository
func NewMongoDriftRepository(db *mongo.Database) *MongoDriftRepository {
	return &MongoDriftRepository{collection: db.Collection("counter_drift")}
}

// RecordDrift stores a drift entry
func (r *MongoDriftRepository) RecordDrift(ctx context.Context, entry *models.DriftEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// PendingPostIDs returns the distinct posts with recorded drift
func (r *MongoDriftRepository) PendingPostIDs(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "post_id", bson.D{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// ClearDrift removes the drift entries of the given posts
func (r *MongoDriftRepository) ClearDrift(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"post_id": bson.M{"$in": postIDs}})
	return err
}

// EnsureIndexes creates the post_id index used by PendingPostIDs and ClearDrift
func (r *MongoDriftRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}},
	})
	return err
}
