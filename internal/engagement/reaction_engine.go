package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
)

// ReactionEngine implements the reaction toggle and the reaction read paths.
type ReactionEngine struct {
	posts     PostFinder
	users     UserFinder
	reactions ReactionStore
	sync      counterSync
}

// NewReactionEngine creates a ReactionEngine. drift may be nil.
func NewReactionEngine(posts PostFinder, users UserFinder, reactions ReactionStore, counters CounterAdjuster, drift DriftRecorder) *ReactionEngine {
	return &ReactionEngine{
		posts:     posts,
		users:     users,
		reactions: reactions,
		sync:      counterSync{counters: counters, drift: drift, timeout: DefaultCounterTimeout},
	}
}

// WithCounterTimeout sets how long a counter delta may take after the
// reaction write.
func (e *ReactionEngine) WithCounterTimeout(d time.Duration) *ReactionEngine {
	e.sync.timeout = d
	return e
}

// ToggleReaction applies the toggle for (postID, userID):
//   - no reaction: insert one of type requested, like/dislike +1 -> Created
//   - same type: delete it, matching counter -1 -> Removed
//   - other type: switch it, old counter -1, new counter +1 -> Updated
//
// A missing post or user yields ErrNotFound before any write. A concurrent
// writer that got there first yields ErrConflict with nothing written.
// If the reaction write commits but the counter delta fails, the outcome is
// returned together with ErrCounterDrift.
func (e *ReactionEngine) ToggleReaction(ctx context.Context, postID string, userID uint, requested models.ReactionType) (ReactionOutcome, error) {
	if !requested.Valid() {
		return nil, &Error{Code: CodeInvalidArgument, Op: "toggle_reaction", Err: fmt.Errorf("invalid reaction type %q", requested)}
	}

	if _, err := e.posts.GetPostByID(ctx, postID); err != nil {
		return nil, classify("find_post", "post", postID, err)
	}
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, classify("find_user", "user", fmt.Sprint(userID), err)
	}

	existing, err := e.reactions.FindReaction(ctx, postID, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, classify("find_reaction", "reaction", postID, err)
	}

	var outcome ReactionOutcome
	switch {
	case existing == nil:
		outcome, err = e.create(ctx, postID, user, requested)
	case existing.Type == requested:
		outcome, err = e.remove(ctx, existing)
	default:
		outcome, err = e.switchType(ctx, existing, user, requested)
	}
	if err != nil {
		return nil, err
	}

	logs.LogJSON("DEBUG", "reaction toggled", map[string]interface{}{
		"post_id": postID,
		"user_id": userID,
		"type":    requested,
		"outcome": outcome.Kind(),
	})

	if err := e.sync.apply(ctx, postID, "reaction "+string(outcome.Kind()), CounterDeltas(outcome)...); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (e *ReactionEngine) create(ctx context.Context, postID string, user *models.User, requested models.ReactionType) (ReactionOutcome, error) {
	reaction := &models.Reaction{
		PostID: postID,
		UserID: user.ID,
		Type:   requested,
	}
	if err := e.reactions.InsertReaction(ctx, reaction); err != nil {
		return nil, classify("insert_reaction", "reaction", postID, err)
	}
	return Created{Reaction: toView(*reaction, user)}, nil
}

func (e *ReactionEngine) remove(ctx context.Context, existing *models.Reaction) (ReactionOutcome, error) {
	if err := e.reactions.DeleteReaction(ctx, existing.ID); err != nil {
		return nil, staleAsConflict(classify("delete_reaction", "reaction", existing.ID, err))
	}
	return Removed{
		ReactionID: existing.ID,
		PostID:     existing.PostID,
		UserID:     existing.UserID,
		Type:       existing.Type,
	}, nil
}

func (e *ReactionEngine) switchType(ctx context.Context, existing *models.Reaction, user *models.User, requested models.ReactionType) (ReactionOutcome, error) {
	previous := existing.Type
	if err := e.reactions.UpdateReactionType(ctx, existing.ID, previous, requested); err != nil {
		return nil, staleAsConflict(classify("update_reaction", "reaction", existing.ID, err))
	}
	updated := *existing
	updated.Type = requested
	updated.UpdatedAt = time.Now().UTC()
	return Updated{Reaction: toView(updated, user), Previous: previous}, nil
}

// staleAsConflict reports a row that vanished or changed since the lookup as a
// conflict: another toggle for the same pair won the race.
func staleAsConflict(err *Error) *Error {
	if err.Code == CodeNotFound {
		err.Code = CodeConflict
	}
	return err
}

// GetReactions returns one page of a post's reactions, optionally only those
// of typeFilter, each joined to its user's display name.
func (e *ReactionEngine) GetReactions(ctx context.Context, postID string, typeFilter *models.ReactionType, page models.PageRequest) (models.Page[models.ReactionView], error) {
	page = models.NewPageRequest(page.Page, page.Size)
	if typeFilter != nil && !typeFilter.Valid() {
		return models.Page[models.ReactionView]{}, &Error{Code: CodeInvalidArgument, Op: "get_reactions", Err: fmt.Errorf("invalid reaction type %q", *typeFilter)}
	}
	if _, err := e.posts.GetPostByID(ctx, postID); err != nil {
		return models.Page[models.ReactionView]{}, classify("find_post", "post", postID, err)
	}

	reactions, total, err := e.reactions.FindReactionsByPost(ctx, postID, typeFilter, page)
	if err != nil {
		return models.Page[models.ReactionView]{}, classify("find_reactions", "post", postID, err)
	}

	ids := make([]uint, 0, len(reactions))
	seen := make(map[uint]bool, len(reactions))
	for _, r := range reactions {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	users, err := e.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return models.Page[models.ReactionView]{}, classify("find_users", "post", postID, err)
	}

	views := make([]models.ReactionView, len(reactions))
	for i, r := range reactions {
		var author *models.User
		if u, ok := users[r.UserID]; ok {
			author = &u
		}
		views[i] = toView(r, author)
	}
	return models.NewPage(views, page, total), nil
}

// GetUserReaction returns the type of the user's reaction on the post; ok is
// false when there is none.
func (e *ReactionEngine) GetUserReaction(ctx context.Context, postID string, userID uint) (models.ReactionType, bool, error) {
	r, err := e.reactions.FindReaction(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", false, nil
		}
		return "", false, classify("find_reaction", "reaction", postID, err)
	}
	return r.Type, true, nil
}

func toView(r models.Reaction, user *models.User) models.ReactionView {
	return models.ReactionView{
		ID:        r.ID,
		PostID:    r.PostID,
		UserID:    r.UserID,
		UserName:  models.DisplayName(user),
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
