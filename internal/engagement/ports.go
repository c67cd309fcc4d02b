package engagement

import (
	"context"

	"github.com/anonto42/engagement/backend/internal/models"
)

// PostFinder resolves posts; a missing post is repositories.ErrNotFound.
type PostFinder interface {
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
}

// CounterAdjuster is the only way counters change: every delta is added by
// the store in one atomic update.
type CounterAdjuster interface {
	AdjustCounters(ctx context.Context, postID string, deltas ...models.CounterDelta) error
}

// UserFinder resolves acting users and reaction authors.
type UserFinder interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
}

// ReactionStore persists reactions. InsertReaction must reject a second
// reaction for the same (post, user) with repositories.ErrDuplicate;
// UpdateReactionType and DeleteReaction return repositories.ErrNotFound when
// the row no longer matches.
type ReactionStore interface {
	FindReaction(ctx context.Context, postID string, userID uint) (*models.Reaction, error)
	InsertReaction(ctx context.Context, reaction *models.Reaction) error
	UpdateReactionType(ctx context.Context, id string, from, to models.ReactionType) error
	DeleteReaction(ctx context.Context, id string) error
	FindReactionsByPost(ctx context.Context, postID string, typeFilter *models.ReactionType, page models.PageRequest) ([]models.Reaction, int64, error)
}

// DriftRecorder receives counter deltas that could not be applied.
type DriftRecorder interface {
	RecordDrift(ctx context.Context, entry *models.DriftEntry) error
}

// ReactionLookup is the narrow view post rendering needs of reactions.
type ReactionLookup interface {
	GetUserReaction(ctx context.Context, postID string, userID uint) (models.ReactionType, bool, error)
}
