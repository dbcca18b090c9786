package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/repository"
)

const maxCommentLen = 10000

// CommentService implements comment CRUD and the comment side of count sync.
// recalcPost re-rolls the parent post's count; it is injected so the service
// does not depend on PostService directly.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	recalcPost  func(ctx context.Context, postID uint) error
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	recalcPost func(ctx context.Context, postID uint) error,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		recalcPost:  recalcPost,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.PostID)
		}
		return nil, err
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("comment", id)
	}
	return comment, err
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment and re-rolls the parent post's count, since
// the comment's reactions leave the total with it. userID zero skips the
// ownership check for the admin path.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if userID != 0 && comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	if err := s.recalcPost(ctx, comment.PostID); err != nil {
		middleware.Logger.WarnContext(ctx, "parent rollup failed after comment delete",
			"post_id", comment.PostID, "comment_id", commentID, "error", err.Error())
	}
	return nil
}

// SetReactionCount stores a freshly pushed reaction count for the comment,
// then re-rolls the parent post. The comment count is always persisted first
// so the rollup reads the new value.
func (s *CommentService) SetReactionCount(ctx context.Context, commentID uint, count int64) error {
	if count < 0 {
		return models.NewValidationError("reaction count cannot be negative")
	}

	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.SetReactionCount(ctx, commentID, int(count)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("comment", commentID)
		}
		return err
	}

	if err := s.recalcPost(ctx, comment.PostID); err != nil {
		middleware.Logger.WarnContext(ctx, "parent rollup failed after count push",
			"post_id", comment.PostID, "comment_id", commentID, "error", err.Error())
	}
	return nil
}
