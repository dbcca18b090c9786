package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commons/internal/models"
	"commons/internal/repository"
)

// FriendService implements the friend request workflow.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{friendRepo: friendRepo, userRepo: userRepo}
}

func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("You cannot send a friend request to yourself")
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", receiverID)
	}
	if err != nil {
		return nil, err
	}
	if receiver.Blocked {
		return nil, models.NewForbiddenError("User is not accepting friend requests")
	}

	existing, err := s.friendRepo.GetBetween(ctx, senderID, receiverID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendRequestAccepted:
			return nil, models.NewConflictError("You are already friends")
		case models.FriendRequestPending:
			return nil, models.NewConflictError("A friend request is already pending")
		default:
			// A rejected request can be retried
			existing.SenderID = senderID
			existing.ReceiverID = receiverID
			existing.Status = models.FriendRequestPending
			if err := s.friendRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestPending,
	}
	if err := s.friendRepo.Create(ctx, request); err != nil {
		if errors.Is(err, repository.ErrDuplicateFriendRequest) {
			return nil, models.NewConflictError("A friend request is already pending")
		}
		return nil, err
	}
	return request, nil
}

func (s *FriendService) AcceptRequest(ctx context.Context, requestID, userID uint) (*models.FriendRequest, error) {
	return s.respond(ctx, requestID, userID, models.FriendRequestAccepted)
}

func (s *FriendService) RejectRequest(ctx context.Context, requestID, userID uint) (*models.FriendRequest, error) {
	return s.respond(ctx, requestID, userID, models.FriendRequestRejected)
}

func (s *FriendService) respond(ctx context.Context, requestID, userID uint, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	request, err := s.friendRepo.GetByID(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("friend request", requestID)
	}
	if err != nil {
		return nil, err
	}

	if request.ReceiverID != userID {
		return nil, models.NewForbiddenError("Only the receiver can respond to a friend request")
	}
	if request.Status != models.FriendRequestPending {
		return nil, models.NewConflictError("Friend request has already been handled")
	}

	request.Status = status
	if err := s.friendRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// CancelRequest lets the sender withdraw a pending request.
func (s *FriendService) CancelRequest(ctx context.Context, requestID, userID uint) error {
	request, err := s.friendRepo.GetByID(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("friend request", requestID)
	}
	if err != nil {
		return err
	}

	if request.SenderID != userID {
		return models.NewForbiddenError("Only the sender can cancel a friend request")
	}
	if request.Status != models.FriendRequestPending {
		return models.NewConflictError("Friend request has already been handled")
	}

	return s.friendRepo.Delete(ctx, requestID)
}

func (s *FriendService) ListIncoming(ctx context.Context, userID uint, limit, offset int) ([]*models.FriendRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.friendRepo.ListIncoming(ctx, userID, limit, offset)
}

func (s *FriendService) ListOutgoing(ctx context.Context, userID uint, limit, offset int) ([]*models.FriendRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.friendRepo.ListOutgoing(ctx, userID, limit, offset)
}
