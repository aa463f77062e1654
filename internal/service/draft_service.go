package service

import (
	"context"
	"strings"

	"p2psandbox/internal/middleware"
	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
)

// DraftService manages author-private drafts and the publish transition.
type DraftService struct {
	draftRepo    repository.DraftRepository
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
	posts        *PostService
	useCases     *UseCaseService
}

type SaveDraftInput struct {
	UserID      uint
	DraftID     uint // zero means create
	ContentType models.ContentType
	Title       string
	Summary     string
	Content     string
	Category    string
	Industry    string
	Region      string
}

type PublishDraftInput struct {
	UserID  uint
	DraftID uint
}

// PublishResult carries whichever content kind the draft produced.
type PublishResult struct {
	Post    *models.Post    `json:"post,omitempty"`
	UseCase *models.UseCase `json:"use_case,omitempty"`
}

func NewDraftService(
	draftRepo repository.DraftRepository,
	statsRepo repository.StatsRepository,
	activityRepo repository.ActivityRepository,
	posts *PostService,
	useCases *UseCaseService,
) *DraftService {
	return &DraftService{
		draftRepo:    draftRepo,
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		posts:        posts,
		useCases:     useCases,
	}
}

// SaveDraft creates or updates a draft. Drafts accept partial content; only
// the target type and length ceilings are checked so work in progress is
// never rejected.
func (s *DraftService) SaveDraft(ctx context.Context, in SaveDraftInput) (*models.Draft, error) {
	if !in.ContentType.Valid() {
		return nil, models.NewValidationError("Invalid content type")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(in.Summary) > maxSummaryLen {
		return nil, models.NewValidationError("Summary too long (max 500 characters)")
	}

	var draft *models.Draft
	if in.DraftID == 0 {
		draft = &models.Draft{
			UserID:      in.UserID,
			ContentType: in.ContentType,
			Title:       in.Title,
			Summary:     in.Summary,
			Content:     in.Content,
			Category:    strings.TrimSpace(in.Category),
			Industry:    strings.TrimSpace(in.Industry),
			Region:      strings.TrimSpace(in.Region),
		}
		if err := s.draftRepo.Create(ctx, draft); err != nil {
			return nil, err
		}
	} else {
		var err error
		draft, err = s.draftRepo.GetByID(ctx, in.DraftID)
		if err != nil {
			return nil, err
		}
		if draft.UserID != in.UserID {
			return nil, models.NewForbiddenError("You can only edit your own drafts")
		}
		// A save is a full replacement of the draft body, not a merge.
		draft.ContentType = in.ContentType
		draft.Title = in.Title
		draft.Summary = in.Summary
		draft.Content = in.Content
		draft.Category = strings.TrimSpace(in.Category)
		draft.Industry = strings.TrimSpace(in.Industry)
		draft.Region = strings.TrimSpace(in.Region)
		if err := s.draftRepo.Update(ctx, draft); err != nil {
			return nil, err
		}
	}

	s.afterMutation(ctx, in.UserID, models.ActionDraftSaved, draft)
	return draft, nil
}

func (s *DraftService) GetDraft(ctx context.Context, userID, draftID uint) (*models.Draft, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	// Drafts are private: another user's draft reads as not found rather
	// than forbidden, so its existence is not leaked.
	if draft.UserID != userID {
		return nil, models.NewNotFoundError("Draft", draftID)
	}
	return draft, nil
}

func (s *DraftService) ListDrafts(ctx context.Context, userID uint, limit, offset int) ([]*models.Draft, error) {
	return s.draftRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *DraftService) DeleteDraft(ctx context.Context, userID, draftID uint) error {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return err
	}
	if err := s.draftRepo.Delete(ctx, draft.ID); err != nil {
		return err
	}
	s.afterMutation(ctx, userID, models.ActionDraftDeleted, draft)
	return nil
}

// PublishDraft turns a draft into published content. The content row is
// created first and the draft removed second; if the removal fails the user
// is left with a published item plus a leftover draft, which is recoverable,
// rather than the reverse, which would lose their work.
func (s *DraftService) PublishDraft(ctx context.Context, in PublishDraftInput) (*PublishResult, error) {
	draft, err := s.GetDraft(ctx, in.UserID, in.DraftID)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{}
	switch draft.ContentType {
	case models.ContentTypePost:
		post, err := s.posts.CreatePost(ctx, CreatePostInput{
			UserID:   in.UserID,
			Title:    draft.Title,
			Content:  draft.Content,
			Category: draft.Category,
		})
		if err != nil {
			return nil, err
		}
		result.Post = post
	case models.ContentTypeUseCase:
		useCase, err := s.useCases.CreateUseCase(ctx, CreateUseCaseInput{
			UserID:   in.UserID,
			Title:    draft.Title,
			Summary:  draft.Summary,
			Content:  draft.Content,
			Category: draft.Category,
			Industry: draft.Industry,
			Region:   draft.Region,
		})
		if err != nil {
			return nil, err
		}
		result.UseCase = useCase
	default:
		return nil, models.NewValidationError("Invalid content type")
	}

	if err := s.draftRepo.Delete(ctx, draft.ID); err != nil {
		// The publish already succeeded. Surface the stranded draft in the
		// logs and move on.
		middleware.Logger.ErrorContext(ctx, "draft cleanup after publish failed",
			"draft_id", draft.ID, "user_id", in.UserID, "error", err)
	}

	s.afterMutation(ctx, in.UserID, models.ActionDraftPublished, draft)
	return result, nil
}

func (s *DraftService) afterMutation(ctx context.Context, userID uint, action string, draft *models.Draft) {
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
			ContentType: draft.ContentType,
			ContentID:   draft.ID,
			Title:       draft.Title,
		}
		if err := s.activityRepo.Log(ctx, entry); err != nil {
			middleware.Logger.ErrorContext(ctx, "activity log failed", "user_id", userID, "error", err)
		}
	}
}
