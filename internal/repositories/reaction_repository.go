package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/engagement/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	FindReaction(ctx context.Context, postID string, userID uint) (*models.Reaction, error)
	InsertReaction(ctx context.Context, reaction *models.Reaction) error
	UpdateReactionType(ctx context.Context, id string, from, to models.ReactionType) error
	DeleteReaction(ctx context.Context, id string) error
	FindReactionsByPost(ctx context.Context, postID string, typeFilter *models.ReactionType, page models.PageRequest) ([]models.Reaction, int64, error)
	CountReactionsByPost(ctx context.Context, postID string) (map[models.ReactionType]int64, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// FindReaction retrieves the reaction a user left on a post
func (r *PostgresReactionRepository) FindReaction(ctx context.Context, postID string, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Take(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reaction on post %q by user %d: %w", postID, userID, ErrNotFound)
		}
		return nil, err
	}
	return &reaction, nil
}

// InsertReaction creates a reaction. A second reaction for the same
// (post_id, user_id) is rejected by idx_reaction_post_user with ErrDuplicate.
func (r *PostgresReactionRepository) InsertReaction(ctx context.Context, reaction *models.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reaction on post %q by user %d: %w", reaction.PostID, reaction.UserID, ErrDuplicate)
		}
		return err
	}
	return nil
}

// UpdateReactionType switches a reaction from one type to another. The row
// must still hold `from`; otherwise ErrNotFound is returned and nothing changes.
func (r *PostgresReactionRepository) UpdateReactionType(ctx context.Context, id string, from, to models.ReactionType) error {
	res := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("id = ? AND type = ?", id, from).
		Updates(map[string]interface{}{"type": to})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reaction %q with type %s: %w", id, from, ErrNotFound)
	}
	return nil
}

// DeleteReaction deletes a reaction by ID
func (r *PostgresReactionRepository) DeleteReaction(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reaction %q: %w", id, ErrNotFound)
	}
	return nil
}

// FindReactionsByPost returns one page of a post's reactions, newest first,
// together with the total number of matching reactions
func (r *PostgresReactionRepository) FindReactionsByPost(ctx context.Context, postID string, typeFilter *models.ReactionType, page models.PageRequest) ([]models.Reaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Reaction{}).Where("post_id = ?", postID)
	if typeFilter != nil {
		query = query.Where("type = ?", *typeFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reactions []models.Reaction
	err := query.Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&reactions).Error
	if err != nil {
		return nil, 0, err
	}
	return reactions, total, nil
}

// CountReactionsByPost counts a post's reactions per type
func (r *PostgresReactionRepository) CountReactionsByPost(ctx context.Context, postID string) (map[models.ReactionType]int64, error) {
	var rows []struct {
		Type  models.ReactionType
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("type, COUNT(*) AS total").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.ReactionType]int64{models.ReactionLike: 0, models.ReactionDislike: 0}
	for _, row := range rows {
		counts[row.Type] = row.Total
	}
	return counts, nil
}
