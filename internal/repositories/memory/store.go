// Package memory provides in-process stores with the same constraints as the
// PostgreSQL and MongoDB repositories: unique (post, user) reactions,
// conditional type updates, and atomic counter deltas. It backs the
// STORE_BACKEND=memory dev mode and the tests of packages above the
// repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Op names a store operation that can be made to fail.
type Op string

const (
	OpGetPost        Op = "get_post"
	OpListPosts      Op = "list_posts"
	OpUpdatePost     Op = "update_post"
	OpDeletePost     Op = "delete_post"
	OpAdjustCounters Op = "adjust_counters"
	OpFindReaction   Op = "find_reaction"
	OpListReactions  Op = "list_reactions"
	OpCountReactions Op = "count_reactions"
	OpInsertReaction Op = "insert_reaction"
	OpUpdateReaction Op = "update_reaction"
	OpDeleteReaction Op = "delete_reaction"
	OpCreateComment  Op = "create_comment"
	OpListComments   Op = "list_comments"
	OpCountComments  Op = "count_comments"
	OpGetComment     Op = "get_comment"
	OpDeleteComment  Op = "delete_comment"
	OpGetUser        Op = "get_user"
	OpGetUsers       Op = "get_users"
	OpRecordDrift    Op = "record_drift"
	OpPendingDrift   Op = "pending_drift"
	OpClearDrift     Op = "clear_drift"
)

type reactionKey struct {
	postID string
	userID uint
}

// Store holds posts, reactions, comments, users and drift entries.
// Every method holds the lock only for the duration of the call.
type Store struct {
	mu        sync.Mutex
	posts     map[string]*models.Post
	reactions map[string]*models.Reaction
	byPair    map[reactionKey]string
	comments  map[string]*models.Comment
	users     map[uint]*models.User
	drift     []models.DriftEntry
	faults    map[Op][]error
	calls     map[Op]int
	nextUser  uint
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		posts:     make(map[string]*models.Post),
		reactions: make(map[string]*models.Reaction),
		byPair:    make(map[reactionKey]string),
		comments:  make(map[string]*models.Comment),
		users:     make(map[uint]*models.User),
		faults:    make(map[Op][]error),
		calls:     make(map[Op]int),
	}
}

var (
	_ repositories.PostRepository     = (*Store)(nil)
	_ repositories.ReactionRepository = (*Store)(nil)
	_ repositories.CommentRepository  = (*Store)(nil)
	_ repositories.UserRepository     = (*Store)(nil)
	_ repositories.DriftRepository    = (*Store)(nil)
)

// InjectFault makes the next call of op fail with err. Faults queue up.
func (s *Store) InjectFault(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], err)
}

// Calls reports how many times op was invoked, including failed calls.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter must be called with s.mu held.
func (s *Store) enter(ctx context.Context, op Op) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if q := s.faults[op]; len(q) > 0 {
		s.faults[op] = q[1:]
		return q[0]
	}
	return nil
}

// AddUser stores a user, assigning an ID when u.ID is zero.
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		s.nextUser++
		u.ID = s.nextUser
	} else if u.ID > s.nextUser {
		s.nextUser = u.ID
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = &u
	return u
}

// RemoveUser deletes a user; their reactions and comments stay behind.
func (s *Store) RemoveUser(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// SetCounter overwrites a stored counter. It exists to simulate drift in tests
// and is not part of any repository interface.
func (s *Store) SetCounter(postID string, c models.Counter, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return
	}
	switch c {
	case models.CounterComment:
		p.CommentCount = value
	case models.CounterLike:
		p.LikeCount = value
	case models.CounterDislike:
		p.DislikeCount = value
	}
}

// CreatePost stores a new post with zeroed counters.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CommentCount, post.LikeCount, post.DislikeCount = 0, 0, 0
	post.CreatedAt, post.UpdatedAt = now, now
	cp := *post
	s.posts[post.ID.Hex()] = &cp
	return nil
}

// GetPostByID returns a copy of the post.
func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpGetPost); err != nil {
		return nil, err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", id, repositories.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// ListPosts pages through the posts matching filter, newest first.
func (s *Store) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpListPosts); err != nil {
		return nil, 0, err
	}
	var matched []models.Post
	for _, p := range s.posts {
		if filter.Matches(p) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.Hex() > matched[j].ID.Hex()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page), int64(len(matched)), nil
}

// UpdatePost replaces the editable fields and leaves the counters alone.
func (s *Store) UpdatePost(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpUpdatePost); err != nil {
		return nil, err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", id, repositories.ErrNotFound)
	}
	p.Title = update.Title
	p.Description = update.Description
	p.TechStack = update.TechStack
	p.Visibility = update.Visibility
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

// DeletePost removes a post. Its reactions and comments stay behind.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpDeletePost); err != nil {
		return err
	}
	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %q: %w", id, repositories.ErrNotFound)
	}
	delete(s.posts, id)
	return nil
}

// ListPostIDs returns every post ID in creation order.
func (s *Store) ListPostIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpListPosts); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// AdjustCounters applies all deltas to the post in one step.
func (s *Store) AdjustCounters(ctx context.Context, postID string, deltas ...models.CounterDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpAdjustCounters); err != nil {
		return err
	}
	for _, d := range deltas {
		if _, err := d.Counter.Field(); err != nil {
			return err
		}
	}
	p, ok := s.posts[postID]
	if !ok {
		return fmt.Errorf("post %q: %w", postID, repositories.ErrNotFound)
	}
	for _, d := range deltas {
		switch d.Counter {
		case models.CounterComment:
			p.CommentCount += d.Delta
		case models.CounterLike:
			p.LikeCount += d.Delta
		case models.CounterDislike:
			p.DislikeCount += d.Delta
		}
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}
