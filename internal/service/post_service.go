package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"commons/internal/client"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/repository"
)

const maxPostLen = 20000

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// PostService implements post CRUD and the reaction count rollup.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	reactions   client.ReactionsClient
}

type CreatePostInput struct {
	UserID  uint
	Content string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactions client.ReactionsClient,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		reactions:   reactions,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 20000 characters)")
	}

	post := &models.Post{
		Content: in.Content,
		UserID:  in.UserID,
	}

	tags, err := s.resolveHashtags(ctx, in.Content)
	if err != nil {
		return nil, err
	}
	post.Hashtags = tags

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", id)
	}
	return post, err
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.List(ctx, limit, offset)
}

// ListTopPosts returns posts ordered by their rolled-up reaction count.
func (s *PostService) ListTopPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.ListTop(ctx, limit, offset)
}

func (s *PostService) ListPostsByHashtag(ctx context.Context, name string, limit, offset int) ([]*models.Post, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	if name == "" {
		return nil, models.NewValidationError("Hashtag name is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.ListByHashtag(ctx, name, limit, offset)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 20000 characters)")
	}

	post.Content = in.Content
	tags, err := s.resolveHashtags(ctx, in.Content)
	if err != nil {
		return nil, err
	}
	post.Hashtags = tags

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its comments. userID zero skips the ownership
// check and is reserved for the admin path, which has already verified the
// caller's credentials.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if userID != 0 && post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.commentRepo.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// SetDirectCount stores a freshly pushed direct reaction count and rolls it
// up with the post's comment counts. The stored reaction_count is always the
// rolled-up total.
func (s *PostService) SetDirectCount(ctx context.Context, postID uint, direct int64) error {
	if direct < 0 {
		return models.NewValidationError("reaction count cannot be negative")
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}

	commentSum, err := s.commentRepo.SumReactionCountsByPost(ctx, postID)
	if err != nil {
		return err
	}
	return s.setTotal(ctx, postID, direct+commentSum)
}

// Recalculate rebuilds the post's rolled-up count from scratch. The direct
// count comes from the reactions service; an unreachable peer reads as zero
// so a rollup never blocks on reactions being up.
func (s *PostService) Recalculate(ctx context.Context, postID uint) error {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}

	direct, err := s.reactions.GetCount(ctx, models.TargetPost, postID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to fetch direct reaction count, using zero",
			"post_id", postID, "error", err.Error())
		direct = 0
	}

	commentSum, err := s.commentRepo.SumReactionCountsByPost(ctx, postID)
	if err != nil {
		return err
	}
	return s.setTotal(ctx, postID, direct+commentSum)
}

func (s *PostService) setTotal(ctx context.Context, postID uint, total int64) error {
	err := s.postRepo.SetReactionCount(ctx, postID, int(total))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("post", postID)
	}
	return err
}

func (s *PostService) resolveHashtags(ctx context.Context, content string) ([]models.Hashtag, error) {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	var tags []models.Hashtag
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		tag, err := s.postRepo.FindOrCreateHashtag(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
