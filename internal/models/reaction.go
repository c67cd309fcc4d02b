package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionType is the kind of reaction a user leaves on a post
type ReactionType string

const (
	ReactionLike    ReactionType = "LIKE"
	ReactionDislike ReactionType = "DISLIKE"
)

// ParseReactionType accepts LIKE or DISLIKE in any letter case.
func ParseReactionType(s string) (ReactionType, error) {
	switch ReactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case ReactionLike:
		return ReactionLike, nil
	case ReactionDislike:
		return ReactionDislike, nil
	}
	return "", fmt.Errorf("invalid reaction type %q", s)
}

// Valid reports whether t is one of the defined reaction kinds.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// Counter returns the post counter tracking reactions of this type.
func (t ReactionType) Counter() Counter {
	if t == ReactionDislike {
		return CounterDislike
	}
	return CounterLike
}

// Reaction represents a user's like or dislike on a post (PostgreSQL).
// A user holds at most one reaction per post, enforced by idx_reaction_post_user.
type Reaction struct {
	ID        string       `json:"id" gorm:"primaryKey;type:uuid"`
	PostID    string       `json:"post_id" gorm:"size:24;not null;index;uniqueIndex:idx_reaction_post_user"` // MongoDB ObjectID as hex string
	UserID    uint         `json:"user_id" gorm:"not null;index;uniqueIndex:idx_reaction_post_user"`
	Type      ReactionType `json:"type" gorm:"type:varchar(10);not null;index"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReactionView is a reaction joined to the display name of its user
type ReactionView struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post_id"`
	UserID    uint         `json:"user_id"`
	UserName  string       `json:"user_name"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ToggleReactionRequest defines the request body for toggling a reaction
type ToggleReactionRequest struct {
	Type string `json:"type" validate:"required,reaction_type"`
}
