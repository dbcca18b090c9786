package repository

import (
	"context"

	"gorm.io/gorm"

	"commons/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	DeleteByPost(ctx context.Context, postID uint) error
	SetReactionCount(ctx context.Context, id uint, count int) error
	SumReactionCountsByPost(ctx context.Context, postID uint) (int64, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Comment{}).Error
}

// SetReactionCount overwrites the comment's reaction count without touching
// updated_at, so count pushes do not look like content edits.
func (r *commentRepository) SetReactionCount(ctx context.Context, id uint, count int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("reaction_count", count)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumReactionCountsByPost totals the direct reaction counts of a post's live
// comments. Soft-deleted comments are excluded by gorm's default scope.
func (r *commentRepository) SumReactionCountsByPost(ctx context.Context, postID uint) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(reaction_count), 0)").
		Scan(&sum).Error
	return sum, err
}
