// Package service implements the business logic of the Commons services.
package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"commons/internal/cache"
	"commons/internal/client"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/observability"
	"commons/internal/repository"
)

// ReactionService implements the reaction toggle engine and count sync.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	content      client.ContentClient
}

// ToggleInput carries one toggle request.
type ToggleInput struct {
	UserID       uint
	TargetID     uint
	TargetType   models.TargetType
	ReactionType models.ReactionType
}

// ToggleResult reports what the toggle did. Reaction is nil when the toggle
// removed an existing reaction.
type ToggleResult struct {
	Reaction *models.Reaction
	Created  bool
}

func NewReactionService(reactionRepo repository.ReactionRepository, content client.ContentClient) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		content:      content,
	}
}

// Toggle applies one reaction request. Reacting with the type already present
// removes the reaction, a different type replaces it, and no existing reaction
// creates one. The target's count is pushed to the content service afterwards.
func (s *ReactionService) Toggle(ctx context.Context, in ToggleInput) (*ToggleResult, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("user identity required")
	}
	if !in.TargetType.Valid() {
		return nil, models.NewValidationError("invalid target type")
	}
	if !in.ReactionType.Valid() {
		return nil, models.NewValidationError("invalid reaction type")
	}

	existing, err := s.reactionRepo.FindByUserAndTarget(ctx, in.UserID, in.TargetID, in.TargetType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	switch {
	case existing != nil && existing.ReactionType == in.ReactionType:
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		observability.ReactionTogglesTotal.WithLabelValues(string(in.TargetType), observability.ToggleOutcomeRemoved).Inc()
		s.pushCount(ctx, in.TargetID, in.TargetType)
		return &ToggleResult{}, nil

	case existing != nil:
		existing.ReactionType = in.ReactionType
		if err := s.reactionRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		observability.ReactionTogglesTotal.WithLabelValues(string(in.TargetType), observability.ToggleOutcomeUpdated).Inc()
		s.pushCount(ctx, in.TargetID, in.TargetType)
		return &ToggleResult{Reaction: existing}, nil

	default:
		reaction := &models.Reaction{
			UserID:       in.UserID,
			TargetID:     in.TargetID,
			TargetType:   in.TargetType,
			ReactionType: in.ReactionType,
		}
		err := s.reactionRepo.Create(ctx, reaction)
		if errors.Is(err, repository.ErrDuplicateReaction) {
			// Lost a race with a concurrent insert for the same tuple.
			// Treat it as a replace of whatever won.
			winner, findErr := s.reactionRepo.FindByUserAndTarget(ctx, in.UserID, in.TargetID, in.TargetType)
			if findErr != nil {
				return nil, findErr
			}
			winner.ReactionType = in.ReactionType
			if saveErr := s.reactionRepo.Save(ctx, winner); saveErr != nil {
				return nil, saveErr
			}
			observability.ReactionTogglesTotal.WithLabelValues(string(in.TargetType), observability.ToggleOutcomeUpdated).Inc()
			s.pushCount(ctx, in.TargetID, in.TargetType)
			return &ToggleResult{Reaction: winner}, nil
		}
		if err != nil {
			return nil, err
		}
		observability.ReactionTogglesTotal.WithLabelValues(string(in.TargetType), observability.ToggleOutcomeCreated).Inc()
		s.pushCount(ctx, in.TargetID, in.TargetType)
		return &ToggleResult{Reaction: reaction, Created: true}, nil
	}
}

// Remove deletes the caller's reaction on a target regardless of its type.
func (s *ReactionService) Remove(ctx context.Context, userID, targetID uint, targetType models.TargetType) error {
	if userID == 0 {
		return models.NewUnauthorizedError("user identity required")
	}
	if !targetType.Valid() {
		return models.NewValidationError("invalid target type")
	}

	existing, err := s.reactionRepo.FindByUserAndTarget(ctx, userID, targetID, targetType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("reaction", targetID)
	}
	if err != nil {
		return err
	}

	if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}
	observability.ReactionTogglesTotal.WithLabelValues(string(targetType), observability.ToggleOutcomeRemoved).Inc()
	s.pushCount(ctx, targetID, targetType)
	return nil
}

// ListForTarget returns the reactions on one target, newest first.
func (s *ReactionService) ListForTarget(ctx context.Context, targetID uint, targetType models.TargetType, limit, offset int) ([]*models.Reaction, error) {
	if !targetType.Valid() {
		return nil, models.NewValidationError("invalid target type")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reactionRepo.ListByTarget(ctx, targetID, targetType, limit, offset)
}

// CountForTarget returns the reaction count for one target, served from a
// short-lived cache when possible.
func (s *ReactionService) CountForTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error) {
	if !targetType.Valid() {
		return 0, models.NewValidationError("invalid target type")
	}

	var count int64
	err := cache.Aside(ctx, cache.ReactionCountKey(string(targetType), targetID), &count, cache.ReactionCountTTL, func() error {
		var fetchErr error
		count, fetchErr = s.reactionRepo.CountByTarget(ctx, targetID, targetType)
		return fetchErr
	})
	return count, err
}

// DeleteAllForTarget bulk-removes every reaction on a target. The count is
// deliberately not pushed: the target itself is being removed by the caller.
func (s *ReactionService) DeleteAllForTarget(ctx context.Context, targetID uint, targetType models.TargetType) (int64, error) {
	if !targetType.Valid() {
		return 0, models.NewValidationError("invalid target type")
	}
	deleted, err := s.reactionRepo.DeleteAllForTarget(ctx, targetID, targetType)
	if err != nil {
		return 0, err
	}
	cache.InvalidateReactionCount(ctx, string(targetType), targetID)
	return deleted, nil
}

// DeleteAllForUser bulk-removes every reaction a user has made, for account
// cleanup. No counts are pushed; affected targets catch up through the
// recalculate endpoint.
func (s *ReactionService) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, models.NewValidationError("user id required")
	}
	return s.reactionRepo.DeleteAllForUser(ctx, userID)
}

// pushCount sends the target's current count to the content service. The push
// is best effort: toggles must succeed even when the content service is down,
// so every failure is logged and swallowed.
func (s *ReactionService) pushCount(ctx context.Context, targetID uint, targetType models.TargetType) {
	cache.InvalidateReactionCount(ctx, string(targetType), targetID)

	count, err := s.reactionRepo.CountByTarget(ctx, targetID, targetType)
	if err != nil {
		s.logPushFailure(ctx, targetID, targetType, fmt.Errorf("failed to count reactions: %w", err))
		return
	}

	switch targetType {
	case models.TargetPost:
		err = s.content.PushPostReactionCount(ctx, targetID, count)
	case models.TargetComment:
		err = s.content.PushCommentReactionCount(ctx, targetID, count)
	}
	if err != nil {
		s.logPushFailure(ctx, targetID, targetType, err)
	}
}

func (s *ReactionService) logPushFailure(ctx context.Context, targetID uint, targetType models.TargetType, err error) {
	observability.CountPushFailures.WithLabelValues(string(targetType)).Inc()
	middleware.Logger.WarnContext(ctx, "reaction count push failed",
		"target_type", targetType,
		"target_id", targetID,
		"error", err.Error(),
	)
}
