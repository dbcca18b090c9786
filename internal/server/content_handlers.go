package server

import (
	"github.com/gofiber/fiber/v2"

	"commons/internal/models"
	"commons/internal/service"
)

type postRequest struct {
	Content string `json:"content"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type reactionCountRequest struct {
	ReactionCount int64 `json:"reactionCount"`
}

// CreatePost creates a post for the authenticated user.
func (s *ContentServer) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts returns the newest posts.
func (s *ContentServer) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListPosts(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetTopPosts returns posts ordered by reaction count.
func (s *ContentServer) GetTopPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListTopPosts(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPostsByHashtag returns the newest posts carrying the given tag.
func (s *ContentServer) GetPostsByHashtag(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListPostsByHashtag(c.UserContext(), c.Params("name"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns one post by id.
func (s *ContentServer) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts returns one user's posts.
func (s *ContentServer) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)
	posts, err := s.postService.GetUserPosts(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost edits the caller's own post.
func (s *ContentServer) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost deletes the caller's own post together with its comments.
func (s *ContentServer) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), postID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateComment adds a comment to a post.
func (s *ContentServer) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists a post's comments, oldest first.
func (s *ContentServer) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)
	comments, err := s.commentService.ListComments(c.UserContext(), postID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment edits the caller's own comment.
func (s *ContentServer) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment deletes the caller's own comment and re-rolls the parent post.
func (s *ContentServer) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), commentID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPostReactionCount receives a direct count push from the reactions
// service and re-rolls the post total.
func (s *ContentServer) SetPostReactionCount(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req reactionCountRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.SetDirectCount(c.UserContext(), postID, req.ReactionCount); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// SetCommentReactionCount receives a count push for a comment, persists it,
// then re-rolls the parent post.
func (s *ContentServer) SetCommentReactionCount(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req reactionCountRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.commentService.SetReactionCount(c.UserContext(), commentID, req.ReactionCount); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// RecalculatePost rebuilds a post's rolled-up count from scratch.
func (s *ContentServer) RecalculatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.Recalculate(c.UserContext(), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// AdminDeletePost deletes any post. The admin's forwarded token has already
// been verified by the route middleware.
func (s *ContentServer) AdminDeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), postID, 0); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminDeleteComment deletes any comment.
func (s *ContentServer) AdminDeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), commentID, 0); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
