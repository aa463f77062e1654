package service

import (
	"context"
	"strings"
	"time"

	"p2psandbox/internal/middleware"
	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
)

type UseCaseService struct {
	useCaseRepo  repository.UseCaseRepository
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
	resolveOrg   func(ctx context.Context, userID uint) (*uint, error)
	isModerator  func(ctx context.Context, userID uint) (bool, error)
}

type CreateUseCaseInput struct {
	UserID   uint
	Title    string
	Summary  string
	Content  string
	Category string
	Industry string
	Region   string
}

type ListUseCasesInput struct {
	Category      string
	Industry      string
	Sort          string
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdateUseCaseInput struct {
	UserID    uint
	UseCaseID uint
	Title     string
	Summary   string
	Content   string
	Category  string
	Industry  string
	Region    string
}

type DeleteUseCaseInput struct {
	UserID    uint
	UseCaseID uint
}

func NewUseCaseService(
	useCaseRepo repository.UseCaseRepository,
	statsRepo repository.StatsRepository,
	activityRepo repository.ActivityRepository,
	resolveOrg func(ctx context.Context, userID uint) (*uint, error),
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *UseCaseService {
	return &UseCaseService{
		useCaseRepo:  useCaseRepo,
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		resolveOrg:   resolveOrg,
		isModerator:  isModerator,
	}
}

func validateSummary(summary string) error {
	if len(summary) > maxSummaryLen {
		return models.NewValidationError("Summary too long (max 500 characters)")
	}
	return nil
}

func (s *UseCaseService) CreateUseCase(ctx context.Context, in CreateUseCaseInput) (*models.UseCase, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := validateSummary(in.Summary); err != nil {
		return nil, err
	}

	useCase := &models.UseCase{
		Title:    in.Title,
		Summary:  in.Summary,
		Content:  in.Content,
		Category: strings.TrimSpace(in.Category),
		Industry: strings.TrimSpace(in.Industry),
		Region:   strings.TrimSpace(in.Region),
		UserID:   in.UserID,
	}

	if s.resolveOrg != nil {
		orgID, err := s.resolveOrg(ctx, in.UserID)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "organization resolution failed", "error", err)
		} else {
			useCase.OrganizationID = orgID
		}
	}

	if err := s.useCaseRepo.Create(ctx, useCase); err != nil {
		return nil, err
	}

	middleware.ContentMutations.WithLabelValues("use_case", "create").Inc()
	s.afterMutation(ctx, in.UserID, models.ActionContentCreated, useCase.ID, useCase.Title)

	return s.useCaseRepo.GetByID(ctx, useCase.ID, in.UserID)
}

func (s *UseCaseService) GetUseCase(ctx context.Context, id uint, currentUserID uint) (*models.UseCase, error) {
	return s.useCaseRepo.GetByID(ctx, id, currentUserID)
}

func (s *UseCaseService) ListUseCases(ctx context.Context, in ListUseCasesInput) ([]*models.UseCase, error) {
	return s.useCaseRepo.List(ctx, in.Category, in.Industry, in.Sort, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *UseCaseService) GetUserUseCases(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.UseCase, error) {
	return s.useCaseRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *UseCaseService) UpdateUseCase(ctx context.Context, in UpdateUseCaseInput) (*models.UseCase, error) {
	useCase, err := s.useCaseRepo.GetByID(ctx, in.UseCaseID, in.UserID)
	if err != nil {
		return nil, err
	}

	if useCase.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own use cases")
	}

	if in.Title != "" {
		if err := validateTitle(in.Title); err != nil {
			return nil, err
		}
		useCase.Title = in.Title
	}
	if in.Summary != "" {
		if err := validateSummary(in.Summary); err != nil {
			return nil, err
		}
		useCase.Summary = in.Summary
	}
	if in.Content != "" {
		if err := validateContent(in.Content); err != nil {
			return nil, err
		}
		useCase.Content = in.Content
	}
	if in.Category != "" {
		useCase.Category = strings.TrimSpace(in.Category)
	}
	if in.Industry != "" {
		useCase.Industry = strings.TrimSpace(in.Industry)
	}
	if in.Region != "" {
		useCase.Region = strings.TrimSpace(in.Region)
	}

	now := time.Now().UTC()
	useCase.EditedAt = &now

	if err := s.useCaseRepo.Update(ctx, useCase); err != nil {
		return nil, err
	}

	middleware.ContentMutations.WithLabelValues("use_case", "update").Inc()
	s.afterMutation(ctx, in.UserID, models.ActionContentUpdated, useCase.ID, useCase.Title)

	return useCase, nil
}

func (s *UseCaseService) DeleteUseCase(ctx context.Context, in DeleteUseCaseInput) error {
	useCase, err := s.useCaseRepo.GetByID(ctx, in.UseCaseID, in.UserID)
	if err != nil {
		return err
	}

	if useCase.UserID != in.UserID {
		if s.isModerator == nil {
			return models.NewForbiddenError("You can only delete your own use cases")
		}
		mod, err := s.isModerator(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !mod {
			return models.NewForbiddenError("You can only delete your own use cases")
		}
	}

	if err := s.useCaseRepo.Delete(ctx, in.UseCaseID); err != nil {
		return err
	}

	middleware.ContentMutations.WithLabelValues("use_case", "delete").Inc()
	s.afterMutation(ctx, useCase.UserID, models.ActionContentDeleted, useCase.ID, useCase.Title)
	return nil
}

func (s *UseCaseService) afterMutation(ctx context.Context, userID uint, action string, useCaseID uint, title string) {
	if s.statsRepo != nil {
		if _, err := s.statsRepo.Recompute(ctx, userID); err != nil {
			middleware.Logger.ErrorContext(ctx, "stats recompute failed", "user_id", userID, "error", err)
		} else {
			middleware.StatsRecomputes.Inc()
		}
	}
	if s.activityRepo != nil {
		entry := &models.Activity{
			UserID:      userID,
			Action:      action,
			ContentType: models.ContentTypeUseCase,
			ContentID:   useCaseID,
			Title:       title,
		}
		if err := s.activityRepo.Log(ctx, entry); err != nil {
			middleware.Logger.ErrorContext(ctx, "activity log failed", "user_id", userID, "error", err)
		}
	}
}
