package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"commons/internal/models"
)

// Stubs below implement the repository and client interfaces with function
// fields so each test overrides only what it cares about. Unset fields fall
// back to empty-database behavior.

type reactionRepoStub struct {
	createFn             func(ctx context.Context, reaction *models.Reaction) error
	saveFn               func(ctx context.Context, reaction *models.Reaction) error
	deleteFn             func(ctx context.Context, id uint) error
	findFn               func(ctx context.Context, userID, targetID uint, targetType models.TargetType) (*models.Reaction, error)
	listFn               func(ctx context.Context, targetID uint, targetType models.TargetType, limit, offset int) ([]*models.Reaction, error)
	countFn              func(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error)
	deleteAllForTargetFn func(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error)
	deleteAllForUserFn   func(ctx context.Context, userID uint) (int64, error)
}

func (s *reactionRepoStub) Create(ctx context.Context, reaction *models.Reaction) error {
	if s.createFn != nil {
		return s.createFn(ctx, reaction)
	}
	return nil
}

func (s *reactionRepoStub) Save(ctx context.Context, reaction *models.Reaction) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, reaction)
	}
	return nil
}

func (s *reactionRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *reactionRepoStub) FindByUserAndTarget(ctx context.Context, userID, targetID uint, targetType models.TargetType) (*models.Reaction, error) {
	if s.findFn != nil {
		return s.findFn(ctx, userID, targetID, targetType)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *reactionRepoStub) ListByTarget(ctx context.Context, targetID uint, targetType models.TargetType, limit, offset int) ([]*models.Reaction, error) {
	if s.listFn != nil {
		return s.listFn(ctx, targetID, targetType, limit, offset)
	}
	return nil, nil
}

func (s *reactionRepoStub) CountByTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, targetID, targetType)
	}
	return 0, nil
}

func (s *reactionRepoStub) DeleteAllForTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error) {
	if s.deleteAllForTargetFn != nil {
		return s.deleteAllForTargetFn(ctx, targetID, targetType)
	}
	return 0, nil
}

func (s *reactionRepoStub) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	if s.deleteAllForUserFn != nil {
		return s.deleteAllForUserFn(ctx, userID)
	}
	return 0, nil
}

type postRepoStub struct {
	createFn              func(ctx context.Context, post *models.Post) error
	getByIDFn             func(ctx context.Context, id uint) (*models.Post, error)
	getByUserIDFn         func(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	listFn                func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	listTopFn             func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	listByHashtagFn       func(ctx context.Context, name string, limit, offset int) ([]*models.Post, error)
	updateFn              func(ctx context.Context, post *models.Post) error
	deleteFn              func(ctx context.Context, id uint) error
	setReactionCountFn    func(ctx context.Context, id uint, count int) error
	findOrCreateHashtagFn func(ctx context.Context, name string) (*models.Hashtag, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if s.getByUserIDFn != nil {
		return s.getByUserIDFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *postRepoStub) ListTop(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if s.listTopFn != nil {
		return s.listTopFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *postRepoStub) ListByHashtag(ctx context.Context, name string, limit, offset int) ([]*models.Post, error) {
	if s.listByHashtagFn != nil {
		return s.listByHashtagFn(ctx, name, limit, offset)
	}
	return nil, nil
}

func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, post)
	}
	return nil
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *postRepoStub) SetReactionCount(ctx context.Context, id uint, count int) error {
	if s.setReactionCountFn != nil {
		return s.setReactionCountFn(ctx, id, count)
	}
	return nil
}

func (s *postRepoStub) FindOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	if s.findOrCreateHashtagFn != nil {
		return s.findOrCreateHashtagFn(ctx, name)
	}
	return &models.Hashtag{Name: name}, nil
}

type commentRepoStub struct {
	createFn           func(ctx context.Context, comment *models.Comment) error
	getByIDFn          func(ctx context.Context, id uint) (*models.Comment, error)
	listByPostFn       func(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	updateFn           func(ctx context.Context, comment *models.Comment) error
	deleteFn           func(ctx context.Context, id uint) error
	deleteByPostFn     func(ctx context.Context, postID uint) error
	setReactionCountFn func(ctx context.Context, id uint, count int) error
	sumByPostFn        func(ctx context.Context, postID uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	if s.createFn != nil {
		return s.createFn(ctx, comment)
	}
	return nil
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if s.listByPostFn != nil {
		return s.listByPostFn(ctx, postID, limit, offset)
	}
	return nil, nil
}

func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, comment)
	}
	return nil
}

func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *commentRepoStub) DeleteByPost(ctx context.Context, postID uint) error {
	if s.deleteByPostFn != nil {
		return s.deleteByPostFn(ctx, postID)
	}
	return nil
}

func (s *commentRepoStub) SetReactionCount(ctx context.Context, id uint, count int) error {
	if s.setReactionCountFn != nil {
		return s.setReactionCountFn(ctx, id, count)
	}
	return nil
}

func (s *commentRepoStub) SumReactionCountsByPost(ctx context.Context, postID uint) (int64, error) {
	if s.sumByPostFn != nil {
		return s.sumByPostFn(ctx, postID)
	}
	return 0, nil
}

type userRepoStub struct {
	createFn        func(ctx context.Context, user *models.User) error
	getByIDFn       func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	updateFn        func(ctx context.Context, user *models.User) error
	setBlockedFn    func(ctx context.Context, id uint, blocked bool, reason string, adminID uint) error
	searchFn        func(ctx context.Context, query string, limit, offset int) ([]*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn != nil {
		return s.getByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) SetBlocked(ctx context.Context, id uint, blocked bool, reason string, adminID uint) error {
	if s.setBlockedFn != nil {
		return s.setBlockedFn(ctx, id, blocked, reason, adminID)
	}
	return nil
}

func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, limit, offset)
	}
	return nil, nil
}

type friendRepoStub struct {
	createFn       func(ctx context.Context, request *models.FriendRequest) error
	getByIDFn      func(ctx context.Context, id uint) (*models.FriendRequest, error)
	getBetweenFn   func(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error)
	updateFn       func(ctx context.Context, request *models.FriendRequest) error
	deleteFn       func(ctx context.Context, id uint) error
	listIncomingFn func(ctx context.Context, receiverID uint, limit, offset int) ([]*models.FriendRequest, error)
	listOutgoingFn func(ctx context.Context, senderID uint, limit, offset int) ([]*models.FriendRequest, error)
}

func (s *friendRepoStub) Create(ctx context.Context, request *models.FriendRequest) error {
	if s.createFn != nil {
		return s.createFn(ctx, request)
	}
	return nil
}

func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *friendRepoStub) GetBetween(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	if s.getBetweenFn != nil {
		return s.getBetweenFn(ctx, senderID, receiverID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *friendRepoStub) Update(ctx context.Context, request *models.FriendRequest) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, request)
	}
	return nil
}

func (s *friendRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *friendRepoStub) ListIncoming(ctx context.Context, receiverID uint, limit, offset int) ([]*models.FriendRequest, error) {
	if s.listIncomingFn != nil {
		return s.listIncomingFn(ctx, receiverID, limit, offset)
	}
	return nil, nil
}

func (s *friendRepoStub) ListOutgoing(ctx context.Context, senderID uint, limit, offset int) ([]*models.FriendRequest, error) {
	if s.listOutgoingFn != nil {
		return s.listOutgoingFn(ctx, senderID, limit, offset)
	}
	return nil, nil
}

type contentClientStub struct {
	pushPostFn      func(ctx context.Context, postID uint, count int64) error
	pushCommentFn   func(ctx context.Context, commentID uint, count int64) error
	deletePostFn    func(ctx context.Context, postID uint, originalAuth string) error
	deleteCommentFn func(ctx context.Context, commentID uint, originalAuth string) error
}

func (s *contentClientStub) PushPostReactionCount(ctx context.Context, postID uint, count int64) error {
	if s.pushPostFn != nil {
		return s.pushPostFn(ctx, postID, count)
	}
	return nil
}

func (s *contentClientStub) PushCommentReactionCount(ctx context.Context, commentID uint, count int64) error {
	if s.pushCommentFn != nil {
		return s.pushCommentFn(ctx, commentID, count)
	}
	return nil
}

func (s *contentClientStub) DeletePostAsAdmin(ctx context.Context, postID uint, originalAuth string) error {
	if s.deletePostFn != nil {
		return s.deletePostFn(ctx, postID, originalAuth)
	}
	return nil
}

func (s *contentClientStub) DeleteCommentAsAdmin(ctx context.Context, commentID uint, originalAuth string) error {
	if s.deleteCommentFn != nil {
		return s.deleteCommentFn(ctx, commentID, originalAuth)
	}
	return nil
}

type identityClientStub struct {
	blockFn   func(ctx context.Context, userID uint, reason, originalAuth string) error
	unblockFn func(ctx context.Context, userID uint, originalAuth string) error
}

func (s *identityClientStub) BlockUser(ctx context.Context, userID uint, reason, originalAuth string) error {
	if s.blockFn != nil {
		return s.blockFn(ctx, userID, reason, originalAuth)
	}
	return nil
}

func (s *identityClientStub) UnblockUser(ctx context.Context, userID uint, originalAuth string) error {
	if s.unblockFn != nil {
		return s.unblockFn(ctx, userID, originalAuth)
	}
	return nil
}

type reactionsClientStub struct {
	getCountFn func(ctx context.Context, targetType models.TargetType, targetID uint) (int64, error)
}

func (s *reactionsClientStub) GetCount(ctx context.Context, targetType models.TargetType, targetID uint) (int64, error) {
	if s.getCountFn != nil {
		return s.getCountFn(ctx, targetType, targetID)
	}
	return 0, nil
}

// assertAppErrorCode fails the test unless err is an AppError with the
// expected code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
