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

// CreateComment stores a comment.
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpCreateComment); err != nil {
		return err
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	comment.CreatedAt, comment.UpdatedAt = now, now
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

// GetCommentByID returns a copy of the comment.
func (s *Store) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpGetComment); err != nil {
		return nil, err
	}
	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %q: %w", id, repositories.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// GetCommentsByPostID pages through a post's comments, newest first.
func (s *Store) GetCommentsByPostID(ctx context.Context, postID string, page models.PageRequest) ([]models.Comment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpListComments); err != nil {
		return nil, 0, err
	}
	var matched []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			matched = append(matched, *c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageOf(matched, page), int64(len(matched)), nil
}

// DeleteComment removes a comment by ID.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpDeleteComment); err != nil {
		return err
	}
	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("comment %q: %w", id, repositories.ErrNotFound)
	}
	delete(s.comments, id)
	return nil
}

// CountCommentsByPost counts a post's comments.
func (s *Store) CountCommentsByPost(ctx context.Context, postID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpCountComments); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}
