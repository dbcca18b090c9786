// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commons/internal/models"
	"commons/internal/observability"
)

// ErrDuplicateReaction is returned when a concurrent insert hit the unique
// (user, target, target type) index first.
var ErrDuplicateReaction = errors.New("reaction already exists for user and target")

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	Save(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id uint) error
	FindByUserAndTarget(ctx context.Context, userID, targetID uint, targetType models.TargetType) (*models.Reaction, error)
	ListByTarget(ctx context.Context, targetID uint, targetType models.TargetType, limit, offset int) ([]*models.Reaction, error)
	CountByTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error)
	DeleteAllForTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uint) (int64, error)
}

// reactionRepository implements ReactionRepository
type reactionRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	defer r.metrics.TrackQuery("create", "reactions")()

	err := r.db.WithContext(ctx).Create(reaction).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReaction
	}
	return err
}

func (r *reactionRepository) Save(ctx context.Context, reaction *models.Reaction) error {
	defer r.metrics.TrackQuery("save", "reactions")()
	return r.db.WithContext(ctx).Save(reaction).Error
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "reactions")()
	return r.db.WithContext(ctx).Delete(&models.Reaction{}, id).Error
}

func (r *reactionRepository) FindByUserAndTarget(ctx context.Context, userID, targetID uint, targetType models.TargetType) (*models.Reaction, error) {
	defer r.metrics.TrackQuery("find_by_user_and_target", "reactions")()

	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) ListByTarget(ctx context.Context, targetID uint, targetType models.TargetType, limit, offset int) ([]*models.Reaction, error) {
	defer r.metrics.TrackQuery("list_by_target", "reactions")()

	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reactions).Error
	return reactions, err
}

func (r *reactionRepository) CountByTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error) {
	defer r.metrics.TrackQuery("count_by_target", "reactions")()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Count(&count).Error
	return count, err
}

func (r *reactionRepository) DeleteAllForTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error) {
	defer r.metrics.TrackQuery("delete_all_for_target", "reactions")()

	res := r.db.WithContext(ctx).
		Where("target_id = ? AND target_type = ?", targetID, targetType).
		Delete(&models.Reaction{})
	return res.RowsAffected, res.Error
}

func (r *reactionRepository) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	defer r.metrics.TrackQuery("delete_all_for_user", "reactions")()

	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Reaction{})
	return res.RowsAffected, res.Error
}
