package service

import (
	"context"
	"strings"
	"testing"

	"p2psandbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseCaseService_CreateUseCase_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUseCaseService(noopUseCaseRepo(), noopStatsRepo(), noopActivityRepo(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateUseCaseInput
	}{
		{
			name:  "empty title",
			input: CreateUseCaseInput{UserID: 1, Content: "some content"},
		},
		{
			name:  "missing content",
			input: CreateUseCaseInput{UserID: 1, Title: "T"},
		},
		{
			name:  "summary too long",
			input: CreateUseCaseInput{UserID: 1, Title: "T", Content: "C", Summary: strings.Repeat("x", 501)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateUseCase(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestUseCaseService_CreateUseCase_StampsOrganization(t *testing.T) {
	t.Parallel()

	repo := noopUseCaseRepo()
	var created *models.UseCase
	repo.createFn = func(_ context.Context, uc *models.UseCase) error {
		created = uc
		uc.ID = 4
		return nil
	}
	orgID := uint(8)
	resolveOrg := func(_ context.Context, _ uint) (*uint, error) { return &orgID, nil }

	svc := NewUseCaseService(repo, noopStatsRepo(), noopActivityRepo(), resolveOrg, nil)
	_, err := svc.CreateUseCase(context.Background(), CreateUseCaseInput{
		UserID:   1,
		Title:    "Vision-based weld inspection",
		Content:  "Camera placement and defect catalogue",
		Industry: "metals",
		Region:   "Eastern Province",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.OrganizationID)
	assert.Equal(t, orgID, *created.OrganizationID)
}

func TestUseCaseService_UpdateUseCase_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot update", func(t *testing.T) {
		t.Parallel()
		repo := noopUseCaseRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.UseCase, error) {
			return &models.UseCase{ID: 1, UserID: 10}, nil
		}
		svc := NewUseCaseService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
		_, err := svc.UpdateUseCase(context.Background(), UpdateUseCaseInput{UserID: 1, UseCaseID: 1, Title: "new"})
		assertForbiddenError(t, err)
	})

	t.Run("owner update keeps untouched fields", func(t *testing.T) {
		t.Parallel()
		repo := noopUseCaseRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.UseCase, error) {
			return &models.UseCase{ID: 1, UserID: 1, Title: "old", Industry: "metals"}, nil
		}
		svc := NewUseCaseService(repo, noopStatsRepo(), noopActivityRepo(), nil, nil)
		uc, err := svc.UpdateUseCase(context.Background(), UpdateUseCaseInput{UserID: 1, UseCaseID: 1, Title: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", uc.Title)
		assert.Equal(t, "metals", uc.Industry)
		assert.NotNil(t, uc.EditedAt)
	})
}

func TestUseCaseService_DeleteUseCase_ModeratorBypass(t *testing.T) {
	t.Parallel()

	repo := noopUseCaseRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.UseCase, error) {
		return &models.UseCase{ID: 1, UserID: 10}, nil
	}
	isModerator := func(_ context.Context, _ uint) (bool, error) { return true, nil }
	svc := NewUseCaseService(repo, noopStatsRepo(), noopActivityRepo(), nil, isModerator)
	err := svc.DeleteUseCase(context.Background(), DeleteUseCaseInput{UserID: 1, UseCaseID: 1})
	assert.NoError(t, err)
}
