package engagement

import (
	"context"

	"github.com/anonto42/engagement/backend/internal/models"
)

// CommentCounter keeps a post's comment_count in step with its comments.
// Call its methods only after the comment write has committed.
type CommentCounter struct {
	sync counterSync
}

// NewCommentCounter creates a CommentCounter. drift may be nil.
func NewCommentCounter(counters CounterAdjuster, drift DriftRecorder) *CommentCounter {
	return &CommentCounter{sync: counterSync{counters: counters, drift: drift, timeout: DefaultCounterTimeout}}
}

// OnCommentCreated adds one to the post's comment counter.
func (c *CommentCounter) OnCommentCreated(ctx context.Context, postID string) error {
	return c.sync.apply(ctx, postID, "comment created", models.CounterDelta{Counter: models.CounterComment, Delta: 1})
}

// OnCommentDeleted subtracts one from the post's comment counter.
func (c *CommentCounter) OnCommentDeleted(ctx context.Context, postID string) error {
	return c.sync.apply(ctx, postID, "comment deleted", models.CounterDelta{Counter: models.CounterComment, Delta: -1})
}
