package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/google/uuid"
)

// FindReaction returns the reaction of userID on postID.
func (s *Store) FindReaction(ctx context.Context, postID string, userID uint) (*models.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpFindReaction); err != nil {
		return nil, err
	}
	id, ok := s.byPair[reactionKey{postID, userID}]
	if !ok {
		return nil, fmt.Errorf("reaction on post %q by user %d: %w", postID, userID, repositories.ErrNotFound)
	}
	cp := *s.reactions[id]
	return &cp, nil
}

// InsertReaction enforces the (post, user) uniqueness.
func (s *Store) InsertReaction(ctx context.Context, reaction *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpInsertReaction); err != nil {
		return err
	}
	key := reactionKey{reaction.PostID, reaction.UserID}
	if _, taken := s.byPair[key]; taken {
		return fmt.Errorf("reaction on post %q by user %d: %w", reaction.PostID, reaction.UserID, repositories.ErrDuplicate)
	}
	if reaction.ID == "" {
		reaction.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reaction.CreatedAt, reaction.UpdatedAt = now, now
	cp := *reaction
	s.reactions[reaction.ID] = &cp
	s.byPair[key] = reaction.ID
	return nil
}

// UpdateReactionType changes the type only while the row still holds from.
func (s *Store) UpdateReactionType(ctx context.Context, id string, from, to models.ReactionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpUpdateReaction); err != nil {
		return err
	}
	r, ok := s.reactions[id]
	if !ok || r.Type != from {
		return fmt.Errorf("reaction %q with type %s: %w", id, from, repositories.ErrNotFound)
	}
	r.Type = to
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// DeleteReaction removes a reaction by ID.
func (s *Store) DeleteReaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpDeleteReaction); err != nil {
		return err
	}
	r, ok := s.reactions[id]
	if !ok {
		return fmt.Errorf("reaction %q: %w", id, repositories.ErrNotFound)
	}
	delete(s.byPair, reactionKey{r.PostID, r.UserID})
	delete(s.reactions, id)
	return nil
}

// FindReactionsByPost pages through a post's reactions, newest first.
func (s *Store) FindReactionsByPost(ctx context.Context, postID string, typeFilter *models.ReactionType, page models.PageRequest) ([]models.Reaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpListReactions); err != nil {
		return nil, 0, err
	}
	var matched []models.Reaction
	for _, r := range s.reactions {
		if r.PostID != postID {
			continue
		}
		if typeFilter != nil && r.Type != *typeFilter {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page), int64(len(matched)), nil
}

// CountReactionsByPost counts reactions per type.
func (s *Store) CountReactionsByPost(ctx context.Context, postID string) (map[models.ReactionType]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpCountReactions); err != nil {
		return nil, err
	}
	counts := map[models.ReactionType]int64{models.ReactionLike: 0, models.ReactionDislike: 0}
	for _, r := range s.reactions {
		if r.PostID == postID {
			counts[r.Type]++
		}
	}
	return counts, nil
}

// ReactionCount returns how many reactions exist for the (post, user) pair.
// It can only ever be 0 or 1; tests use it to check the unique constraint.
func (s *Store) ReactionCount(postID string, userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reactions {
		if r.PostID == postID && r.UserID == userID {
			n++
		}
	}
	return n
}

func pageOf[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
