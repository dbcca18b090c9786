package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commons/internal/models"
)

func receiverExists(repo *userRepoStub) *userRepoStub {
	repo.getByIDFn = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "bob"}, nil
	}
	return repo
}

func TestFriendService_SendRequest(t *testing.T) {
	t.Parallel()

	t.Run("creates a pending request", func(t *testing.T) {
		t.Parallel()

		var created *models.FriendRequest
		friendRepo := &friendRepoStub{
			createFn: func(ctx context.Context, request *models.FriendRequest) error {
				request.ID = 4
				created = request
				return nil
			},
		}
		svc := NewFriendService(friendRepo, receiverExists(&userRepoStub{}))

		request, err := svc.SendRequest(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, created, request)
		assert.Equal(t, models.FriendRequestPending, request.Status)
	})

	t.Run("cannot friend yourself", func(t *testing.T) {
		t.Parallel()

		svc := NewFriendService(&friendRepoStub{}, &userRepoStub{})
		_, err := svc.SendRequest(context.Background(), 1, 1)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("missing receiver", func(t *testing.T) {
		t.Parallel()

		svc := NewFriendService(&friendRepoStub{}, &userRepoStub{})
		_, err := svc.SendRequest(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("blocked receiver", func(t *testing.T) {
		t.Parallel()

		userRepo := &userRepoStub{
			getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, Blocked: true}, nil
			},
		}
		svc := NewFriendService(&friendRepoStub{}, userRepo)

		_, err := svc.SendRequest(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("already friends", func(t *testing.T) {
		t.Parallel()

		friendRepo := &friendRepoStub{
			getBetweenFn: func(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
				return &models.FriendRequest{ID: 4, Status: models.FriendRequestAccepted}, nil
			},
		}
		svc := NewFriendService(friendRepo, receiverExists(&userRepoStub{}))

		_, err := svc.SendRequest(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("already pending", func(t *testing.T) {
		t.Parallel()

		friendRepo := &friendRepoStub{
			getBetweenFn: func(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
				return &models.FriendRequest{ID: 4, Status: models.FriendRequestPending}, nil
			},
		}
		svc := NewFriendService(friendRepo, receiverExists(&userRepoStub{}))

		_, err := svc.SendRequest(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("rejected request can be retried", func(t *testing.T) {
		t.Parallel()

		var updated *models.FriendRequest
		friendRepo := &friendRepoStub{
			getBetweenFn: func(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
				// Original direction was reversed: the receiver rejected
				// a request from the sender's side long ago
				return &models.FriendRequest{
					ID: 4, SenderID: receiverID, ReceiverID: senderID,
					Status: models.FriendRequestRejected,
				}, nil
			},
			updateFn: func(ctx context.Context, request *models.FriendRequest) error {
				updated = request
				return nil
			},
		}
		svc := NewFriendService(friendRepo, receiverExists(&userRepoStub{}))

		request, err := svc.SendRequest(context.Background(), 1, 2)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.FriendRequestPending, request.Status)
		assert.Equal(t, uint(1), request.SenderID, "retried request flips to the new sender")
		assert.Equal(t, uint(2), request.ReceiverID)
	})
}

func TestFriendService_Respond(t *testing.T) {
	t.Parallel()

	pendingRequest := func(id, senderID, receiverID uint) *friendRepoStub {
		return &friendRepoStub{
			getByIDFn: func(ctx context.Context, reqID uint) (*models.FriendRequest, error) {
				return &models.FriendRequest{
					ID: id, SenderID: senderID, ReceiverID: receiverID,
					Status: models.FriendRequestPending,
				}, nil
			},
		}
	}

	t.Run("receiver accepts", func(t *testing.T) {
		t.Parallel()

		svc := NewFriendService(pendingRequest(4, 1, 2), &userRepoStub{})
		request, err := svc.AcceptRequest(context.Background(), 4, 2)
		require.NoError(t, err)
		assert.Equal(t, models.FriendRequestAccepted, request.Status)
	})

	t.Run("receiver rejects", func(t *testing.T) {
		t.Parallel()

		svc := NewFriendService(pendingRequest(4, 1, 2), &userRepoStub{})
		request, err := svc.RejectRequest(context.Background(), 4, 2)
		require.NoError(t, err)
		assert.Equal(t, models.FriendRequestRejected, request.Status)
	})

	t.Run("only the receiver can respond", func(t *testing.T) {
		t.Parallel()

		svc := NewFriendService(pendingRequest(4, 1, 2), &userRepoStub{})
		_, err := svc.AcceptRequest(context.Background(), 4, 1)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("already handled", func(t *testing.T) {
		t.Parallel()

		friendRepo := &friendRepoStub{
			getByIDFn: func(ctx context.Context, id uint) (*models.FriendRequest, error) {
				return &models.FriendRequest{
					ID: id, SenderID: 1, ReceiverID: 2,
					Status: models.FriendRequestAccepted,
				}, nil
			},
		}
		svc := NewFriendService(friendRepo, &userRepoStub{})

		_, err := svc.AcceptRequest(context.Background(), 4, 2)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("missing request", func(t *testing.T) {
		t.Parallel()

		svc := NewFriendService(&friendRepoStub{}, &userRepoStub{})
		_, err := svc.AcceptRequest(context.Background(), 4, 2)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestFriendService_CancelRequest(t *testing.T) {
	t.Parallel()

	t.Run("sender cancels a pending request", func(t *testing.T) {
		t.Parallel()

		var deletedID uint
		friendRepo := &friendRepoStub{
			getByIDFn: func(ctx context.Context, id uint) (*models.FriendRequest, error) {
				return &models.FriendRequest{
					ID: id, SenderID: 1, ReceiverID: 2,
					Status: models.FriendRequestPending,
				}, nil
			},
			deleteFn: func(ctx context.Context, id uint) error {
				deletedID = id
				return nil
			},
		}
		svc := NewFriendService(friendRepo, &userRepoStub{})

		require.NoError(t, svc.CancelRequest(context.Background(), 4, 1))
		assert.Equal(t, uint(4), deletedID)
	})

	t.Run("only the sender can cancel", func(t *testing.T) {
		t.Parallel()

		friendRepo := &friendRepoStub{
			getByIDFn: func(ctx context.Context, id uint) (*models.FriendRequest, error) {
				return &models.FriendRequest{
					ID: id, SenderID: 1, ReceiverID: 2,
					Status: models.FriendRequestPending,
				}, nil
			},
		}
		svc := NewFriendService(friendRepo, &userRepoStub{})

		err := svc.CancelRequest(context.Background(), 4, 2)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}
