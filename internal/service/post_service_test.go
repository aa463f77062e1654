package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"p2psandbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint, uint) (*models.Post, error)
	getByIDsFn    func(context.Context, []uint, uint) ([]*models.Post, error)
	getByUserIDFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn        func(context.Context, string, string, int, int, uint) ([]*models.Post, error)
	updateFn      func(context.Context, *models.Post) error
	deleteFn      func(context.Context, uint) error
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.Post, error) {
	return s.getByIDsFn(ctx, ids, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, category, sortBy string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, category, sortBy, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByIDsFn: func(_ context.Context, _ []uint, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn: func(_ context.Context, _, _ string, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		countByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// statsRepoStub is a stub for repository.StatsRepository.
type statsRepoStub struct {
	recomputeFn   func(context.Context, uint) (*models.UserStats, error)
	getByUserIDFn func(context.Context, uint) (*models.UserStats, error)
}

func (s *statsRepoStub) Recompute(ctx context.Context, userID uint) (*models.UserStats, error) {
	return s.recomputeFn(ctx, userID)
}
func (s *statsRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.UserStats, error) {
	return s.getByUserIDFn(ctx, userID)
}

func noopStatsRepo() *statsRepoStub {
	return &statsRepoStub{
		recomputeFn:   func(_ context.Context, _ uint) (*models.UserStats, error) { return &models.UserStats{}, nil },
		getByUserIDFn: func(_ context.Context, _ uint) (*models.UserStats, error) { return &models.UserStats{}, nil },
	}
}

// activityRepoStub is a stub for repository.ActivityRepository.
type activityRepoStub struct {
	logFn        func(context.Context, *models.Activity) error
	listByUserFn func(context.Context, uint, int, int) ([]*models.Activity, error)
}

func (s *activityRepoStub) Log(ctx context.Context, entry *models.Activity) error {
	return s.logFn(ctx, entry)
}
func (s *activityRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Activity, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}

func noopActivityRepo() *activityRepoStub {
	return &activityRepoStub{
		logFn:        func(_ context.Context, _ *models.Activity) error { return nil },
		listByUserFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Activity, error) { return nil, nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopStatsRepo(), noopActivityRepo(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "empty title",
			input: CreatePostInput{UserID: 1, Content: "some content"},
		},
		{
			name:  "whitespace title",
			input: CreatePostInput{UserID: 1, Title: "   ", Content: "some content"},
		},
		{
			name:  "title too long",
			input: CreatePostInput{UserID: 1, Title: strings.Repeat("x", 301), Content: "c"},
		},
		{
			name:  "missing content",
			input: CreatePostInput{UserID: 1, Title: "T"},
		},
		{
			name:  "content too long",
			input: CreatePostInput{UserID: 1, Title: "T", Content: strings.Repeat("x", 50001)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_Postconditions(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, Title: "Laser cutter settings"}, nil
	}

	var recomputedFor uint
	stats := noopStatsRepo()
	stats.recomputeFn = func(_ context.Context, userID uint) (*models.UserStats, error) {
		recomputedFor = userID
		return &models.UserStats{UserID: userID}, nil
	}

	var logged *models.Activity
	activity := noopActivityRepo()
	activity.logFn = func(_ context.Context, entry *models.Activity) error {
		logged = entry
		return nil
	}

	orgID := uint(3)
	resolveOrg := func(_ context.Context, _ uint) (*uint, error) { return &orgID, nil }

	svc := NewPostService(repo, stats, activity, resolveOrg, nil)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  5,
		Title:   "Laser cutter settings",
		Content: "Feed rates for 3mm steel",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), post.ID)
	assert.Equal(t, uint(5), recomputedFor)
	require.NotNil(t, logged)
	assert.Equal(t, models.ActionContentCreated, logged.Action)
	assert.Equal(t, uint(7), logged.ContentID)
}

func TestPostService_CreatePost_OrgResolutionFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	resolveOrg := func(_ context.Context, _ uint) (*uint, error) {
		return nil, errors.New("org lookup down")
	}

	svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), resolveOrg, nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Title: "T", Content: "C"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.OrganizationID)
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot update", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Title: "new"})
		assertForbiddenError(t, err)
	})

	t.Run("moderator cannot update either", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		isModerator := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, isModerator)
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Title: "new"})
		assertForbiddenError(t, err)
	})

	t.Run("owner update sets edited_at", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1, Title: "old"}, nil
		}
		svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Title: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", post.Title)
		assert.NotNil(t, post.EditedAt)
	})
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1}, nil
		}
		svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assert.NoError(t, err)
	})

	t.Run("non-owner without moderator check is forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assertForbiddenError(t, err)
	})

	t.Run("moderator can delete another user's post", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		var recomputedFor uint
		stats := noopStatsRepo()
		stats.recomputeFn = func(_ context.Context, userID uint) (*models.UserStats, error) {
			recomputedFor = userID
			return &models.UserStats{}, nil
		}
		isModerator := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewPostService(repo, stats, noopActivityRepo(), nil, isModerator)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		require.NoError(t, err)
		// Stats move for the author, not the moderator.
		assert.Equal(t, uint(10), recomputedFor)
	})

	t.Run("non-moderator cannot delete another user's post", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		isModerator := func(_ context.Context, _ uint) (bool, error) { return false, nil }
		svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, isModerator)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assertForbiddenError(t, err)
	})
}

func TestPostService_DeletePost_NotFoundPassesThrough(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewPostService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
	err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 42})
	assertNotFoundError(t, err)
}
