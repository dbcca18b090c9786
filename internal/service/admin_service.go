package service

import (
	"context"

	"commons/internal/client"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/observability"
)

// AdminService orchestrates admin actions that span multiple services. The
// reactions service is the entry point; it forwards the action to the owning
// service with the admin's original credentials and only then cleans up its
// own data, so a failed forward leaves everything untouched.
type AdminService struct {
	reactions *ReactionService
	content   client.ContentClient
	identity  client.IdentityClient
}

// AdminActionInput identifies the acting admin and the forwarded credentials.
type AdminActionInput struct {
	AdminID      uint
	TargetID     uint
	OriginalAuth string
	Reason       string
}

func NewAdminService(reactions *ReactionService, content client.ContentClient, identity client.IdentityClient) *AdminService {
	return &AdminService{
		reactions: reactions,
		content:   content,
		identity:  identity,
	}
}

func (s *AdminService) validate(in AdminActionInput) error {
	if in.AdminID == 0 {
		return models.NewUnauthorizedError("admin identity required")
	}
	if in.OriginalAuth == "" {
		return models.NewUnauthorizedError("original credentials required")
	}
	if in.TargetID == 0 {
		return models.NewValidationError("target id is required")
	}
	return nil
}

// DeletePost removes a post via the content service, then drops the local
// reactions for it. Comment reactions are left to their own cleanup path.
func (s *AdminService) DeletePost(ctx context.Context, in AdminActionInput) (*models.AdminActionConfirmation, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	if err := s.content.DeletePostAsAdmin(ctx, in.TargetID, in.OriginalAuth); err != nil {
		observability.AdminActionsTotal.WithLabelValues(models.ActionDeletePost, "forward_failed").Inc()
		return nil, err
	}

	s.cleanupReactions(ctx, in.TargetID, models.TargetPost)
	observability.AdminActionsTotal.WithLabelValues(models.ActionDeletePost, "ok").Inc()

	middleware.Logger.InfoContext(ctx, "admin deleted post",
		"admin_id", in.AdminID, "post_id", in.TargetID)

	return &models.AdminActionConfirmation{
		Message:  "post deleted",
		TargetID: in.TargetID,
		Action:   models.ActionDeletePost,
	}, nil
}

// DeleteComment removes a comment via the content service, then drops the
// local reactions for it.
func (s *AdminService) DeleteComment(ctx context.Context, in AdminActionInput) (*models.AdminActionConfirmation, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	if err := s.content.DeleteCommentAsAdmin(ctx, in.TargetID, in.OriginalAuth); err != nil {
		observability.AdminActionsTotal.WithLabelValues(models.ActionDeleteComment, "forward_failed").Inc()
		return nil, err
	}

	s.cleanupReactions(ctx, in.TargetID, models.TargetComment)
	observability.AdminActionsTotal.WithLabelValues(models.ActionDeleteComment, "ok").Inc()

	middleware.Logger.InfoContext(ctx, "admin deleted comment",
		"admin_id", in.AdminID, "comment_id", in.TargetID)

	return &models.AdminActionConfirmation{
		Message:  "comment deleted",
		TargetID: in.TargetID,
		Action:   models.ActionDeleteComment,
	}, nil
}

// BlockUser forwards the block to the identity service. No local state is
// touched; the user's past reactions remain valid history.
func (s *AdminService) BlockUser(ctx context.Context, in AdminActionInput) (*models.AdminActionConfirmation, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	if err := s.identity.BlockUser(ctx, in.TargetID, in.Reason, in.OriginalAuth); err != nil {
		observability.AdminActionsTotal.WithLabelValues(models.ActionBlockUser, "forward_failed").Inc()
		return nil, err
	}
	observability.AdminActionsTotal.WithLabelValues(models.ActionBlockUser, "ok").Inc()

	middleware.Logger.InfoContext(ctx, "admin blocked user",
		"admin_id", in.AdminID, "user_id", in.TargetID)

	return &models.AdminActionConfirmation{
		Message:  "user blocked",
		TargetID: in.TargetID,
		Action:   models.ActionBlockUser,
	}, nil
}

// UnblockUser forwards the unblock to the identity service.
func (s *AdminService) UnblockUser(ctx context.Context, in AdminActionInput) (*models.AdminActionConfirmation, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	if err := s.identity.UnblockUser(ctx, in.TargetID, in.OriginalAuth); err != nil {
		observability.AdminActionsTotal.WithLabelValues(models.ActionUnblockUser, "forward_failed").Inc()
		return nil, err
	}
	observability.AdminActionsTotal.WithLabelValues(models.ActionUnblockUser, "ok").Inc()

	middleware.Logger.InfoContext(ctx, "admin unblocked user",
		"admin_id", in.AdminID, "user_id", in.TargetID)

	return &models.AdminActionConfirmation{
		Message:  "user unblocked",
		TargetID: in.TargetID,
		Action:   models.ActionUnblockUser,
	}, nil
}

// cleanupReactions removes local reactions for a deleted target. The forward
// already succeeded, so failures here are logged rather than surfaced.
func (s *AdminService) cleanupReactions(ctx context.Context, targetID uint, targetType models.TargetType) {
	deleted, err := s.reactions.DeleteAllForTarget(ctx, targetID, targetType)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "reaction cleanup failed after admin delete",
			"target_type", targetType, "target_id", targetID, "error", err.Error())
		return
	}
	middleware.Logger.InfoContext(ctx, "reactions cleaned up",
		"target_type", targetType, "target_id", targetID, "deleted", deleted)
}
