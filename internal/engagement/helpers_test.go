package engagement

import (
	"context"
	"testing"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memory.Store
	engine *ReactionEngine
	postID string
	alice  models.User
	bob    models.User
}

// newFixture creates a store with one public post and two users.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	post := &models.Post{AuthorID: 1, Title: "hello", Description: "world", Visibility: true}
	require.NoError(t, store.CreatePost(context.Background(), post))

	return &fixture{
		store:  store,
		engine: NewReactionEngine(store, store, store, store, store),
		postID: post.ID.Hex(),
		alice:  store.AddUser(models.User{Name: "Alice", Email: "alice@example.com"}),
		bob:    store.AddUser(models.User{Name: "Bob", Email: "bob@example.com"}),
	}
}

// counters returns comment, like and dislike counts of the fixture post.
func (f *fixture) counters(t *testing.T) [3]int64 {
	t.Helper()
	p, err := f.store.GetPostByID(context.Background(), f.postID)
	require.NoError(t, err)
	return [3]int64{p.CommentCount, p.LikeCount, p.DislikeCount}
}

func (f *fixture) toggle(t *testing.T, userID uint, typ models.ReactionType) ReactionOutcome {
	t.Helper()
	out, err := f.engine.ToggleReaction(context.Background(), f.postID, userID, typ)
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

// toggleWithRetry retries conflicts the way a request handler does.
func toggleWithRetry(ctx context.Context, e *ReactionEngine, postID string, userID uint, typ models.ReactionType) (ReactionOutcome, error) {
	for {
		out, err := e.ToggleReaction(ctx, postID, userID, typ)
		if err != nil && IsRetryable(err) {
			continue
		}
		return out, err
	}
}
