// Package service holds the business rules: validation, ownership checks,
// and the statistics and activity postconditions that follow every mutation.
package service

import (
	"context"
	"strings"
	"time"

	"p2psandbox/internal/middleware"
	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000 // 50K characters
	maxSummaryLen = 500
)

type PostService struct {
	postRepo     repository.PostRepository
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
	// resolveOrg returns the organization id inferred from the user's email
	// domain, nil when the user has no company affiliation.
	resolveOrg func(ctx context.Context, userID uint) (*uint, error)
	// isModerator grants delete (and only delete) on other users' content.
	isModerator func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
}

type ListPostsInput struct {
	Category      string
	Sort          string
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	Category string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	statsRepo repository.StatsRepository,
	activityRepo repository.ActivityRepository,
	resolveOrg func(ctx context.Context, userID uint) (*uint, error),
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		resolveOrg:   resolveOrg,
		isModerator:  isModerator,
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Category: strings.TrimSpace(in.Category),
		UserID:   in.UserID,
	}

	if s.resolveOrg != nil {
		orgID, err := s.resolveOrg(ctx, in.UserID)
		if err != nil {
			// Organization inference is best-effort; a failure here must not
			// block publishing.
			middleware.Logger.WarnContext(ctx, "organization resolution failed", "error", err)
		} else {
			post.OrganizationID = orgID
		}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.ContentMutations.WithLabelValues("post", "create").Inc()
	s.afterMutation(ctx, in.UserID, models.ActionContentCreated, post.ID, post.Title)

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Category, in.Sort, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	// Editing is author-only. Moderators do not get this bypass.
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != "" {
		if err := validateTitle(in.Title); err != nil {
			return nil, err
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if err := validateContent(in.Content); err != nil {
			return nil, err
		}
		post.Content = in.Content
	}
	if in.Category != "" {
		post.Category = strings.TrimSpace(in.Category)
	}

	now := time.Now().UTC()
	post.EditedAt = &now

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	middleware.ContentMutations.WithLabelValues("post", "update").Inc()
	s.afterMutation(ctx, in.UserID, models.ActionContentUpdated, post.ID, post.Title)

	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isModerator == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		mod, err := s.isModerator(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !mod {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	middleware.ContentMutations.WithLabelValues("post", "delete").Inc()
	// Stats belong to the author, including on a moderator delete.
	s.afterMutation(ctx, post.UserID, models.ActionContentDeleted, post.ID, post.Title)
	return nil
}

// afterMutation runs the postconditions shared by every post mutation: a
// full statistics recompute for the author and an activity feed entry. Both
// are best-effort; the mutation itself has already committed.
func (s *PostService) afterMutation(ctx context.Context, userID uint, action string, postID uint, title string) {
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
			ContentType: models.ContentTypePost,
			ContentID:   postID,
			Title:       title,
		}
		if err := s.activityRepo.Log(ctx, entry); err != nil {
			middleware.Logger.ErrorContext(ctx, "activity log failed", "user_id", userID, "error", err)
		}
	}
}
