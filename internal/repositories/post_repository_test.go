package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create zeroes counters", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		post := &models.Post{AuthorID: 1, Title: "t", LikeCount: 9}
		require.NoError(mt, repo.CreatePost(context.Background(), post))
		assert.False(mt, post.ID.IsZero())
		assert.Zero(mt, post.LikeCount)
		assert.False(mt, post.CreatedAt.IsZero())
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "author_id", Value: 1},
			{Key: "title", Value: "hello"},
			{Key: "visibility", Value: true},
			{Key: "like_count", Value: int64(2)},
		}))

		post, err := repo.GetPostByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "hello", post.Title)
		assert.True(mt, post.Visibility)
		assert.EqualValues(mt, 2, post.LikeCount)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch))

		_, err := repo.GetPostByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("get malformed id", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)

		_, err := repo.GetPostByID(context.Background(), "not-an-object-id")
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("list posts", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}),
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: b}, {Key: "title", Value: "newer"}, {Key: "visibility", Value: true}},
				bson.D{{Key: "_id", Value: a}, {Key: "title", Value: "older"}, {Key: "visibility", Value: true}},
			),
		)

		posts, total, err := repo.ListPosts(context.Background(), models.PostFilter{PublicOnly: true}, models.NewPageRequest(2, 2))
		require.NoError(mt, err)
		assert.EqualValues(mt, 7, total)
		require.Len(mt, posts, 2)
		assert.Equal(mt, "newer", posts[0].Title)
	})

	mt.Run("list posts on empty collection", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch),
		)

		posts, total, err := repo.ListPosts(context.Background(), models.PostFilter{AuthorID: 3}, models.NewPageRequest(1, 20))
		require.NoError(mt, err)
		assert.Zero(mt, total)
		assert.NotNil(mt, posts)
		assert.Empty(mt, posts)
	})

	mt.Run("update post", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "edited"},
			{Key: "visibility", Value: false},
			{Key: "like_count", Value: int64(4)},
		}}))

		post, err := repo.UpdatePost(context.Background(), id.Hex(), models.PostUpdate{Title: "edited"})
		require.NoError(mt, err)
		assert.Equal(mt, "edited", post.Title)
		assert.EqualValues(mt, 4, post.LikeCount)
	})

	mt.Run("update missing post", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdatePost(context.Background(), primitive.NewObjectID().Hex(), models.PostUpdate{Title: "x"})
		assert.True(mt, errors.Is(err, ErrNotFound))

		_, err = repo.UpdatePost(context.Background(), "bad-id", models.PostUpdate{Title: "x"})
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("delete post", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		id := primitive.NewObjectID().Hex()
		require.NoError(mt, repo.DeletePost(context.Background(), id))
		assert.True(mt, errors.Is(repo.DeletePost(context.Background(), id), ErrNotFound))
	})

	mt.Run("list ids", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}},
			bson.D{{Key: "_id", Value: b}},
		))

		ids, err := repo.ListPostIDs(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{a.Hex(), b.Hex()}, ids)
	})

	mt.Run("adjust counters", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.AdjustCounters(context.Background(), primitive.NewObjectID().Hex(),
			models.CounterDelta{Counter: models.CounterLike, Delta: -1},
			models.CounterDelta{Counter: models.CounterDislike, Delta: 1},
		)
		assert.NoError(mt, err)
	})

	mt.Run("adjust counters on missing post", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.AdjustCounters(context.Background(), primitive.NewObjectID().Hex(),
			models.CounterDelta{Counter: models.CounterComment, Delta: 1})
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("adjust counters with nothing to apply", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)

		// no mock response queued: any command would fail
		err := repo.AdjustCounters(context.Background(), primitive.NewObjectID().Hex(),
			models.CounterDelta{Counter: models.CounterLike, Delta: 1},
			models.CounterDelta{Counter: models.CounterLike, Delta: -1},
		)
		assert.NoError(mt, err)
	})

	mt.Run("adjust counters rejects bad input", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)

		err := repo.AdjustCounters(context.Background(), "bad-id", models.CounterDelta{Counter: models.CounterLike, Delta: 1})
		assert.True(mt, errors.Is(err, ErrInvalidID))

		err = repo.AdjustCounters(context.Background(), primitive.NewObjectID().Hex(), models.CounterDelta{Counter: "shares", Delta: 1})
		assert.Error(mt, err)
	})
}

func TestIncDocument(t *testing.T) {
	inc, err := incDocument([]models.CounterDelta{
		{Counter: models.CounterLike, Delta: -1},
		{Counter: models.CounterDislike, Delta: 1},
		{Counter: models.CounterComment, Delta: 2},
		{Counter: models.CounterComment, Delta: -2},
	})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"like_count": int64(-1), "dislike_count": int64(1)}, inc)
}

func TestPostUpdateDocument_LeavesCountersAlone(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := postUpdateDocument(models.PostUpdate{Title: "t", Description: "d", TechStack: []string{"go"}, Visibility: true}, now)

	assert.Equal(t, bson.M{"$set": bson.M{
		"title":       "t",
		"description": "d",
		"tech_stack":  []string{"go"},
		"visibility":  true,
		"updated_at":  now,
	}}, doc)
	assert.NotContains(t, doc, "$inc")
}

func TestPostFilterDocument(t *testing.T) {
	assert.Equal(t, bson.M{}, postFilterDocument(models.PostFilter{}))
	assert.Equal(t, bson.M{"visibility": true}, postFilterDocument(models.PostFilter{PublicOnly: true}))
	assert.Equal(t, bson.M{"author_id": uint(5)}, postFilterDocument(models.PostFilter{AuthorID: 5}))
}
