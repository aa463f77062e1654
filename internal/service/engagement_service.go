package service

import (
	"context"

	"p2psandbox/internal/middleware"
	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
)

// EngagementService owns like and bookmark toggling. The repository makes the
// flip itself atomic; this layer adds target validation and the statistics
// and activity postconditions.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	postRepo       repository.PostRepository
	useCaseRepo    repository.UseCaseRepository
	statsRepo      repository.StatsRepository
	activityRepo   repository.ActivityRepository
}

type ToggleInput struct {
	UserID      uint
	Kind        models.EngagementKind
	ContentType models.ContentType
	ContentID   uint
}

// ToggleResult reports the edge state after the flip plus the fresh count so
// clients can render without a second round trip.
type ToggleResult struct {
	Engaged bool  `json:"engaged"`
	Count   int64 `json:"count"`
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	postRepo repository.PostRepository,
	useCaseRepo repository.UseCaseRepository,
	statsRepo repository.StatsRepository,
	activityRepo repository.ActivityRepository,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
		useCaseRepo:    useCaseRepo,
		statsRepo:      statsRepo,
		activityRepo:   activityRepo,
	}
}

func (s *EngagementService) Toggle(ctx context.Context, in ToggleInput) (*ToggleResult, error) {
	if !in.Kind.Valid() {
		return nil, models.NewValidationError("Invalid engagement kind")
	}
	if !in.ContentType.Valid() {
		return nil, models.NewValidationError("Invalid content type")
	}

	// The target must exist and not be deleted. Soft-deleted content answers
	// not found here, which blocks new engagement on removed items.
	authorID, title, err := s.resolveTarget(ctx, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}

	engaged, err := s.engagementRepo.Toggle(ctx, in.UserID, in.Kind, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}

	state := "off"
	if engaged {
		state = "on"
	}
	middleware.EngagementToggles.WithLabelValues(string(in.Kind), state).Inc()

	// Received-engagement counts live on the author's statistics row.
	if s.statsRepo != nil {
		if _, err := s.statsRepo.Recompute(ctx, authorID); err != nil {
			middleware.Logger.ErrorContext(ctx, "stats recompute failed", "user_id", authorID, "error", err)
		} else {
			middleware.StatsRecomputes.Inc()
		}
	}

	if s.activityRepo != nil && engaged {
		action := models.ActionLikeToggled
		if in.Kind == models.EngagementBookmark {
			action = models.ActionBookmarkToggled
		}
		entry := &models.Activity{
			UserID:      in.UserID,
			Action:      action,
			ContentType: in.ContentType,
			ContentID:   in.ContentID,
			Title:       title,
		}
		if err := s.activityRepo.Log(ctx, entry); err != nil {
			middleware.Logger.ErrorContext(ctx, "activity log failed", "user_id", in.UserID, "error", err)
		}
	}

	count, err := s.engagementRepo.Count(ctx, in.Kind, in.ContentType, in.ContentID)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{Engaged: engaged, Count: count}, nil
}

// GetBookmarkedPosts lists the caller's bookmarked posts, newest bookmark first.
func (s *EngagementService) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	ids, err := s.engagementRepo.ContentIDsByUser(ctx, userID, models.EngagementBookmark, models.ContentTypePost, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByIDs(ctx, ids, userID)
}

// GetBookmarkedUseCases lists the caller's bookmarked use cases.
func (s *EngagementService) GetBookmarkedUseCases(ctx context.Context, userID uint, limit, offset int) ([]*models.UseCase, error) {
	ids, err := s.engagementRepo.ContentIDsByUser(ctx, userID, models.EngagementBookmark, models.ContentTypeUseCase, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.useCaseRepo.GetByIDs(ctx, ids, userID)
}

func (s *EngagementService) resolveTarget(ctx context.Context, contentType models.ContentType, contentID uint) (authorID uint, title string, err error) {
	switch contentType {
	case models.ContentTypePost:
		post, err := s.postRepo.GetByID(ctx, contentID, 0)
		if err != nil {
			return 0, "", err
		}
		return post.UserID, post.Title, nil
	case models.ContentTypeUseCase:
		useCase, err := s.useCaseRepo.GetByID(ctx, contentID, 0)
		if err != nil {
			return 0, "", err
		}
		return useCase.UserID, useCase.Title, nil
	default:
		return 0, "", models.NewValidationError("Invalid content type")
	}
}
