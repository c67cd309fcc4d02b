package memory

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/engagement/backend/internal/models"
)

// RecordDrift appends a drift entry.
func (s *Store) RecordDrift(ctx context.Context, entry *models.DriftEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpRecordDrift); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.drift = append(s.drift, *entry)
	return nil
}

// PendingPostIDs lists the posts with drift entries.
func (s *Store) PendingPostIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpPendingDrift); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var ids []string
	for _, e := range s.drift {
		if !seen[e.PostID] {
			seen[e.PostID] = true
			ids = append(ids, e.PostID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ClearDrift drops the drift entries of the given posts.
func (s *Store) ClearDrift(ctx context.Context, postIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpClearDrift); err != nil {
		return err
	}
	drop := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		drop[id] = true
	}
	kept := s.drift[:0]
	for _, e := range s.drift {
		if !drop[e.PostID] {
			kept = append(kept, e)
		}
	}
	s.drift = kept
	return nil
}

// DriftEntries returns a copy of the drift log.
func (s *Store) DriftEntries() []models.DriftEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DriftEntry(nil), s.drift...)
}
