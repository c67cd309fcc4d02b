package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB. The three counters are denormalized
// from the reactions and comments tables and are only ever changed with $inc.
type Post struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID     uint               `json:"author_id" bson:"author_id"` // ID of the user who created the post
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	TechStack    []string           `json:"tech_stack,omitempty" bson:"tech_stack,omitempty"`
	Visibility   bool               `json:"visibility" bson:"visibility"` // Only public posts accept comments
	CommentCount int64              `json:"comment_count" bson:"comment_count"`
	LikeCount    int64              `json:"like_count" bson:"like_count"`
	DislikeCount int64              `json:"dislike_count" bson:"dislike_count"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Counter returns the stored value of the given counter.
func (p *Post) Counter(c Counter) int64 {
	switch c {
	case CounterComment:
		return p.CommentCount
	case CounterLike:
		return p.LikeCount
	case CounterDislike:
		return p.DislikeCount
	}
	return 0
}

// PostView is a post as rendered for a specific viewer
type PostView struct {
	Post
	UserReaction *ReactionType `json:"user_reaction"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"required,min=1,max=5000"`
	TechStack   []string `json:"tech_stack,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	Visibility  *bool    `json:"visibility" validate:"required"`
}

// UpdatePostRequest replaces the editable fields of a post
type UpdatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"required,min=1,max=5000"`
	TechStack   []string `json:"tech_stack,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	Visibility  *bool    `json:"visibility" validate:"required"`
}

// PostUpdate holds the fields an author may change. The counters are owned by
// the engagement engine and are never part of an update.
type PostUpdate struct {
	Title       string
	Description string
	TechStack   []string
	Visibility  bool
}

// PostFilter narrows a post listing. The zero value matches every post.
type PostFilter struct {
	AuthorID   uint // 0 means any author
	PublicOnly bool
}

// Matches reports whether p passes the filter.
func (f PostFilter) Matches(p *Post) bool {
	if f.PublicOnly && !p.Visibility {
		return false
	}
	return f.AuthorID == 0 || p.AuthorID == f.AuthorID
}

// VisibleTo reports whether userID may see the post: public posts are visible
// to everyone, private posts only to their author.
func (p *Post) VisibleTo(userID uint) bool {
	return p.Visibility || p.AuthorID == userID
}
