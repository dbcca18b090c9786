package repository

import (
	"context"

	"gorm.io/gorm"

	"commons/internal/cache"
	"commons/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListTop(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByHashtag(ctx context.Context, name string, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	SetReactionCount(ctx context.Context, id uint, count int) error
	FindOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("Hashtags").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListTop(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Order("reaction_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByHashtag(ctx context.Context, name string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("hashtags.name = ?", name).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// SetReactionCount overwrites the rolled-up reaction count without touching
// updated_at, so count pushes do not look like content edits.
func (r *postRepository) SetReactionCount(ctx context.Context, id uint, count int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("reaction_count", count)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) FindOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	err := r.db.WithContext(ctx).
		Where(models.Hashtag{Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
