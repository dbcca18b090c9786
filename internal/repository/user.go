package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"commons/internal/cache"
	"commons/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetBlocked(ctx context.Context, id uint, blocked bool, reason string, adminID uint) error
	Search(ctx context.Context, query string, limit, offset int) ([]*models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if err == nil {
		cache.InvalidateUser(ctx, user.ID)
	}
	return err
}

// SetBlocked flips the block state in one update. Blocking records who and
// why; unblocking clears all block fields.
func (r *userRepository) SetBlocked(ctx context.Context, id uint, blocked bool, reason string, adminID uint) error {
	updates := map[string]interface{}{
		"blocked":             blocked,
		"blocked_reason":      "",
		"blocked_at":          nil,
		"blocked_by_admin_id": nil,
	}
	if blocked {
		now := time.Now()
		updates["blocked_reason"] = reason
		updates["blocked_at"] = &now
		updates["blocked_by_admin_id"] = &adminID
	}

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("username ILIKE ?", "%"+query+"%").
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}
