package service

import (
	"context"
	"testing"

	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	observedFn func(context.Context, models.ContentType) ([]repository.CategoryCount, error)
}

func (s *categoryRepoStub) ObservedCategories(ctx context.Context, contentType models.ContentType) ([]repository.CategoryCount, error) {
	return s.observedFn(ctx, contentType)
}

func TestCategoryService_GetCategories_MergesSuggestions(t *testing.T) {
	t.Parallel()

	repo := &categoryRepoStub{
		observedFn: func(_ context.Context, contentType models.ContentType) ([]repository.CategoryCount, error) {
			switch contentType {
			case models.ContentTypePost:
				return []repository.CategoryCount{
					{Category: "automation", Count: 3}, // lowercase spelling in the wild
					{Category: "Welding", Count: 2},
				}, nil
			default:
				return []repository.CategoryCount{
					{Category: "AUTOMATION", Count: 1},
				}, nil
			}
		},
	}

	svc := NewCategoryService(repo)
	categories, err := svc.GetCategories(context.Background(), "all")
	require.NoError(t, err)

	byName := make(map[string]Category)
	for _, c := range categories {
		byName[c.Name] = c
	}

	// Case-insensitive fold onto the curated spelling, summed across types.
	automation, ok := byName["Automation"]
	require.True(t, ok, "curated spelling must win: %v", categories)
	assert.Equal(t, int64(4), automation.Count)
	assert.True(t, automation.Suggested)
	_, lowercaseLeaked := byName["automation"]
	assert.False(t, lowercaseLeaked)

	// Free-text categories outside the curated list keep their spelling.
	welding, ok := byName["Welding"]
	require.True(t, ok)
	assert.Equal(t, int64(2), welding.Count)
	assert.False(t, welding.Suggested)

	// Unused curated entries are still offered.
	compliance, ok := byName["Compliance"]
	require.True(t, ok)
	assert.Equal(t, int64(0), compliance.Count)
	assert.True(t, compliance.Suggested)

	// Busiest first.
	assert.Equal(t, "Automation", categories[0].Name)
}

func TestCategoryService_GetCategories_ScopeFiltersContentType(t *testing.T) {
	t.Parallel()

	var asked []models.ContentType
	repo := &categoryRepoStub{
		observedFn: func(_ context.Context, contentType models.ContentType) ([]repository.CategoryCount, error) {
			asked = append(asked, contentType)
			return nil, nil
		},
	}

	svc := NewCategoryService(repo)
	_, err := svc.GetCategories(context.Background(), "use_case")
	require.NoError(t, err)
	assert.Equal(t, []models.ContentType{models.ContentTypeUseCase}, asked)
}

func TestCategoryService_GetCategories_InvalidScope(t *testing.T) {
	t.Parallel()

	svc := NewCategoryService(&categoryRepoStub{})
	_, err := svc.GetCategories(context.Background(), "everything")
	assertValidationError(t, err)
}
