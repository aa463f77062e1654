package service

import (
	"context"
	"testing"

	"p2psandbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	toggleFn           func(context.Context, uint, models.EngagementKind, models.ContentType, uint) (bool, error)
	countFn            func(context.Context, models.EngagementKind, models.ContentType, uint) (int64, error)
	existsFn           func(context.Context, uint, models.EngagementKind, models.ContentType, uint) (bool, error)
	contentIDsByUserFn func(context.Context, uint, models.EngagementKind, models.ContentType, int, int) ([]uint, error)
}

func (s *engagementRepoStub) Toggle(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, contentID uint) (bool, error) {
	return s.toggleFn(ctx, userID, kind, contentType, contentID)
}
func (s *engagementRepoStub) Count(ctx context.Context, kind models.EngagementKind, contentType models.ContentType, contentID uint) (int64, error) {
	return s.countFn(ctx, kind, contentType, contentID)
}
func (s *engagementRepoStub) Exists(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, contentID uint) (bool, error) {
	return s.existsFn(ctx, userID, kind, contentType, contentID)
}
func (s *engagementRepoStub) ContentIDsByUser(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, limit, offset int) ([]uint, error) {
	return s.contentIDsByUserFn(ctx, userID, kind, contentType, limit, offset)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		toggleFn: func(_ context.Context, _ uint, _ models.EngagementKind, _ models.ContentType, _ uint) (bool, error) {
			return true, nil
		},
		countFn: func(_ context.Context, _ models.EngagementKind, _ models.ContentType, _ uint) (int64, error) {
			return 1, nil
		},
		existsFn: func(_ context.Context, _ uint, _ models.EngagementKind, _ models.ContentType, _ uint) (bool, error) {
			return false, nil
		},
		contentIDsByUserFn: func(_ context.Context, _ uint, _ models.EngagementKind, _ models.ContentType, _, _ int) ([]uint, error) {
			return nil, nil
		},
	}
}

// useCaseRepoStub is a stub for repository.UseCaseRepository.
type useCaseRepoStub struct {
	createFn      func(context.Context, *models.UseCase) error
	getByIDFn     func(context.Context, uint, uint) (*models.UseCase, error)
	getByIDsFn    func(context.Context, []uint, uint) ([]*models.UseCase, error)
	getByUserIDFn func(context.Context, uint, int, int, uint) ([]*models.UseCase, error)
	listFn        func(context.Context, string, string, string, int, int, uint) ([]*models.UseCase, error)
	updateFn      func(context.Context, *models.UseCase) error
	deleteFn      func(context.Context, uint) error
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *useCaseRepoStub) Create(ctx context.Context, uc *models.UseCase) error {
	return s.createFn(ctx, uc)
}
func (s *useCaseRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.UseCase, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *useCaseRepoStub) GetByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.UseCase, error) {
	return s.getByIDsFn(ctx, ids, currentUserID)
}
func (s *useCaseRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.UseCase, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *useCaseRepoStub) List(ctx context.Context, category, industry, sortBy string, limit, offset int, currentUserID uint) ([]*models.UseCase, error) {
	return s.listFn(ctx, category, industry, sortBy, limit, offset, currentUserID)
}
func (s *useCaseRepoStub) Update(ctx context.Context, uc *models.UseCase) error {
	return s.updateFn(ctx, uc)
}
func (s *useCaseRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *useCaseRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopUseCaseRepo() *useCaseRepoStub {
	return &useCaseRepoStub{
		createFn:  func(_ context.Context, _ *models.UseCase) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.UseCase, error) { return &models.UseCase{}, nil },
		getByIDsFn: func(_ context.Context, _ []uint, _ uint) ([]*models.UseCase, error) {
			return nil, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.UseCase, error) { return nil, nil },
		listFn: func(_ context.Context, _, _, _ string, _, _ int, _ uint) ([]*models.UseCase, error) {
			return nil, nil
		},
		updateFn:      func(_ context.Context, _ *models.UseCase) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		countByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func TestEngagementService_Toggle_Validation(t *testing.T) {
	t.Parallel()

	svc := NewEngagementService(noopEngagementRepo(), noopPostRepo(), noopUseCaseRepo(), noopStatsRepo(), noopActivityRepo())
	ctx := context.Background()

	t.Run("invalid kind", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Toggle(ctx, ToggleInput{UserID: 1, Kind: "star", ContentType: models.ContentTypePost, ContentID: 1})
		assertValidationError(t, err)
	})

	t.Run("invalid content type", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Toggle(ctx, ToggleInput{UserID: 1, Kind: models.EngagementLike, ContentType: "video", ContentID: 1})
		assertValidationError(t, err)
	})
}

func TestEngagementService_Toggle_DeletedTargetBlocks(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	toggled := false
	eng := noopEngagementRepo()
	eng.toggleFn = func(_ context.Context, _ uint, _ models.EngagementKind, _ models.ContentType, _ uint) (bool, error) {
		toggled = true
		return true, nil
	}

	svc := NewEngagementService(eng, posts, noopUseCaseRepo(), noopStatsRepo(), noopActivityRepo())
	_, err := svc.Toggle(context.Background(), ToggleInput{
		UserID: 1, Kind: models.EngagementLike, ContentType: models.ContentTypePost, ContentID: 9,
	})
	assertNotFoundError(t, err)
	assert.False(t, toggled, "toggle must not run against a deleted target")
}

func TestEngagementService_Toggle_RecomputesAuthorStats(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 42, Title: "Kanban boards on the shop floor"}, nil
	}
	var recomputedFor uint
	stats := noopStatsRepo()
	stats.recomputeFn = func(_ context.Context, userID uint) (*models.UserStats, error) {
		recomputedFor = userID
		return &models.UserStats{}, nil
	}
	eng := noopEngagementRepo()
	eng.countFn = func(_ context.Context, _ models.EngagementKind, _ models.ContentType, _ uint) (int64, error) {
		return 5, nil
	}

	svc := NewEngagementService(eng, posts, noopUseCaseRepo(), stats, noopActivityRepo())
	res, err := svc.Toggle(context.Background(), ToggleInput{
		UserID: 7, Kind: models.EngagementLike, ContentType: models.ContentTypePost, ContentID: 3,
	})
	require.NoError(t, err)
	assert.True(t, res.Engaged)
	assert.Equal(t, int64(5), res.Count)
	// The author's received-likes change, not the toggler's.
	assert.Equal(t, uint(42), recomputedFor)
}

func TestEngagementService_Toggle_ActivityOnlyOnEngage(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}
	logged := 0
	activity := noopActivityRepo()
	activity.logFn = func(_ context.Context, _ *models.Activity) error {
		logged++
		return nil
	}
	eng := noopEngagementRepo()
	eng.toggleFn = func(_ context.Context, _ uint, _ models.EngagementKind, _ models.ContentType, _ uint) (bool, error) {
		return false, nil // un-toggle
	}

	svc := NewEngagementService(eng, posts, noopUseCaseRepo(), noopStatsRepo(), activity)
	res, err := svc.Toggle(context.Background(), ToggleInput{
		UserID: 1, Kind: models.EngagementBookmark, ContentType: models.ContentTypePost, ContentID: 3,
	})
	require.NoError(t, err)
	assert.False(t, res.Engaged)
	assert.Zero(t, logged, "removing an edge is not feed-worthy")
}

func TestEngagementService_GetBookmarkedPosts(t *testing.T) {
	t.Parallel()

	eng := noopEngagementRepo()
	eng.contentIDsByUserFn = func(_ context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, _, _ int) ([]uint, error) {
		assert.Equal(t, models.EngagementBookmark, kind)
		assert.Equal(t, models.ContentTypePost, contentType)
		return []uint{4, 2}, nil
	}
	posts := noopPostRepo()
	posts.getByIDsFn = func(_ context.Context, ids []uint, _ uint) ([]*models.Post, error) {
		out := make([]*models.Post, len(ids))
		for i, id := range ids {
			out[i] = &models.Post{ID: id}
		}
		return out, nil
	}

	svc := NewEngagementService(eng, posts, noopUseCaseRepo(), noopStatsRepo(), noopActivityRepo())
	got, err := svc.GetBookmarkedPosts(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
