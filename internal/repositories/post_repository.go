package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/engagement/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPostIDs(ctx context.Context) ([]string, error)
	AdjustCounters(ctx context.Context, postID string, deltas ...models.CounterDelta) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

func parsePostID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("post %q: %w", id, ErrInvalidID)
	}
	return objID, nil
}

// CreatePost creates a new post in MongoDB with all counters at zero
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CommentCount, post.LikeCount, post.DislikeCount = 0, 0, 0
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := parsePostID(id)
	if err != nil {
		// An unparsable id can never name a stored post.
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves a page of posts matching filter, newest first
func (r *MongoPostRepository) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]models.Post, int64, error) {
	query := postFilterDocument(filter)
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size)).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func postFilterDocument(filter models.PostFilter) bson.M {
	query := bson.M{}
	if filter.PublicOnly {
		query["visibility"] = true
	}
	if filter.AuthorID != 0 {
		query["author_id"] = filter.AuthorID
	}
	return query
}

// UpdatePost sets the editable fields of a post and returns the stored
// document, counters included as they are now.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	objID, err := parsePostID(id)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, postUpdateDocument(update, time.Now().UTC()), opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// postUpdateDocument never touches the counters, which only change via $inc.
func postUpdateDocument(update models.PostUpdate, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"title":       update.Title,
			"description": update.Description,
			"tech_stack":  update.TechStack,
			"visibility":  update.Visibility,
			"updated_at":  now,
		},
	}
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := parsePostID(id)
	if err != nil {
		return fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	return nil
}

// ListPostIDs returns the hex IDs of every post, oldest first
func (r *MongoPostRepository) ListPostIDs(ctx context.Context) ([]string, error) {
	findOptions := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID.Hex())
	}
	return ids, cursor.Err()
}

// AdjustCounters adds every delta to its counter in one $inc update. The
// server applies the whole update atomically, so concurrent callers never lose
// each other's increments.
func (r *MongoPostRepository) AdjustCounters(ctx context.Context, postID string, deltas ...models.CounterDelta) error {
	inc, err := incDocument(deltas)
	if err != nil {
		return err
	}
	if len(inc) == 0 {
		return nil
	}

	objID, err := parsePostID(postID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %q: %w", postID, ErrNotFound)
	}
	return nil
}

// incDocument folds deltas into a $inc document, dropping counters that net to zero.
func incDocument(deltas []models.CounterDelta) (bson.M, error) {
	inc := bson.M{}
	sums := make(map[string]int64, len(deltas))
	for _, d := range deltas {
		field, err := d.Counter.Field()
		if err != nil {
			return nil, err
		}
		sums[field] += d.Delta
	}
	for field, sum := range sums {
		if sum != 0 {
			inc[field] = sum
		}
	}
	return inc, nil
}
