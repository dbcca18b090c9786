package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commons/internal/models"
)

// ErrDuplicateFriendRequest is returned when a request between the same pair
// already exists.
var ErrDuplicateFriendRequest = errors.New("friend request already exists")

// FriendRepository defines the interface for friend request data operations
type FriendRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetBetween(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error)
	Update(ctx context.Context, request *models.FriendRequest) error
	Delete(ctx context.Context, id uint) error
	ListIncoming(ctx context.Context, receiverID uint, limit, offset int) ([]*models.FriendRequest, error)
	ListOutgoing(ctx context.Context, senderID uint, limit, offset int) ([]*models.FriendRequest, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend request repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateFriendRequest
	}
	return err
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetBetween finds a request in either direction between two users.
func (r *friendRepository) GetBetween(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverID, receiverID, senderID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *friendRepository) Update(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *friendRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id).Error
}

func (r *friendRepository) ListIncoming(ctx context.Context, receiverID uint, limit, offset int) ([]*models.FriendRequest, error) {
	var requests []*models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ? AND status = ?", receiverID, models.FriendRequestPending).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}

func (r *friendRepository) ListOutgoing(ctx context.Context, senderID uint, limit, offset int) ([]*models.FriendRequest, error) {
	var requests []*models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Receiver").
		Where("sender_id = ? AND status = ?", senderID, models.FriendRequestPending).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}
