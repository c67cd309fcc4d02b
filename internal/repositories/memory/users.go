package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
)

func (s *Store) findUser(ctx context.Context, what string, match func(*models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpGetUser); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", what, repositories.ErrNotFound)
}

// GetUserByID looks a user up by ID.
func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findUser(ctx, fmt.Sprint(id), func(u *models.User) bool { return u.ID == id })
}

// GetUserByEmail looks a user up by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, email, func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetUserByFirebaseUID looks a user up by Firebase UID.
func (s *Store) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return s.findUser(ctx, firebaseUID, func(u *models.User) bool {
		return firebaseUID != "" && u.FirebaseUID == firebaseUID
	})
}

// GetUsersByIDs returns the users that exist among ids.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpGetUsers); err != nil {
		return nil, err
	}
	result := make(map[uint]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			result[id] = *u
		}
	}
	return result, nil
}
