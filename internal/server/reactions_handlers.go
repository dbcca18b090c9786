package server

import (
	"github.com/gofiber/fiber/v2"

	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/service"
)

type toggleRequest struct {
	ReactionType string `json:"reaction_type"`
}

// ToggleReaction applies a reaction to a target. Repeating the same reaction
// removes it, a different one replaces it.
func (s *ReactionsServer) ToggleReaction(c *fiber.Ctx) error {
	targetType, err := parseTargetType(c)
	if err != nil {
		return nil
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	reactionType, ok := models.ParseReactionType(req.ReactionType)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid reaction type"))
	}

	result, err := s.reactionService.Toggle(c.UserContext(), service.ToggleInput{
		UserID:       currentUserID(c),
		TargetID:     targetID,
		TargetType:   targetType,
		ReactionType: reactionType,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.Reaction == nil {
		// The toggle removed an existing reaction
		return c.SendStatus(fiber.StatusOK)
	}
	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result.Reaction)
}

// RemoveReaction deletes the caller's reaction regardless of its type.
func (s *ReactionsServer) RemoveReaction(c *fiber.Ctx) error {
	targetType, err := parseTargetType(c)
	if err != nil {
		return nil
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reactionService.Remove(c.UserContext(), currentUserID(c), targetID, targetType); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListReactions returns the reactions on one target, newest first.
func (s *ReactionsServer) ListReactions(c *fiber.Ctx) error {
	targetType, err := parseTargetType(c)
	if err != nil {
		return nil
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	reactions, err := s.reactionService.ListForTarget(c.UserContext(), targetID, targetType, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reactions)
}

// GetReactionCount returns the reaction count for one target.
func (s *ReactionsServer) GetReactionCount(c *fiber.Ctx) error {
	targetType, err := parseTargetType(c)
	if err != nil {
		return nil
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.reactionService.CountForTarget(c.UserContext(), targetID, targetType)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"target_type": targetType,
		"target_id":   targetID,
		"count":       count,
	})
}

// DeleteAllForTarget bulk-removes every reaction on a target.
func (s *ReactionsServer) DeleteAllForTarget(c *fiber.Ctx) error {
	targetType, err := parseTargetType(c)
	if err != nil {
		return nil
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.reactionService.DeleteAllForTarget(c.UserContext(), targetID, targetType)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// DeleteAllForUser bulk-removes every reaction a user has made.
func (s *ReactionsServer) DeleteAllForUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.reactionService.DeleteAllForUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// adminInput assembles the orchestrator input from the trusted headers. Both
// the resolved identity and the original credentials must be present.
func (s *ReactionsServer) adminInput(c *fiber.Ctx, targetID uint) (service.AdminActionInput, error) {
	originalAuth := c.Get(middleware.HeaderOriginalAuth)
	if originalAuth == "" {
		return service.AdminActionInput{}, models.NewUnauthorizedError("original credentials required")
	}
	return service.AdminActionInput{
		AdminID:      currentUserID(c),
		TargetID:     targetID,
		OriginalAuth: originalAuth,
	}, nil
}

// AdminDeletePost deletes a post everywhere: content first, local reactions after.
func (s *ReactionsServer) AdminDeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := s.adminInput(c, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	confirmation, err := s.adminService.DeletePost(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confirmation)
}

// AdminDeleteComment deletes a comment everywhere.
func (s *ReactionsServer) AdminDeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := s.adminInput(c, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	confirmation, err := s.adminService.DeleteComment(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confirmation)
}

type blockRequest struct {
	Reason string `json:"reason"`
}

// AdminBlockUser forwards a block to the identity service.
func (s *ReactionsServer) AdminBlockUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := s.adminInput(c, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req blockRequest
	if err := c.BodyParser(&req); err == nil {
		in.Reason = req.Reason
	}

	confirmation, err := s.adminService.BlockUser(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confirmation)
}

// AdminUnblockUser forwards an unblock to the identity service.
func (s *ReactionsServer) AdminUnblockUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := s.adminInput(c, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	confirmation, err := s.adminService.UnblockUser(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(confirmation)
}
