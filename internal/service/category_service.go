package service

import (
	"context"
	"sort"
	"strings"

	"p2psandbox/internal/cache"
	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
)

// suggestedCategories is the curated baseline shown even before any content
// uses them. Observed free-text categories merge into this list.
var suggestedCategories = []string{
	"Automation",
	"Quality Control",
	"Supply Chain",
	"Equipment",
	"Sourcing",
	"Workforce",
	"Energy",
	"Logistics",
	"Digital Transformation",
	"Compliance",
}

// Category is one entry of the merged aggregation.
type Category struct {
	Name      string `json:"name"`
	Count     int64  `json:"count"`
	Suggested bool   `json:"suggested"`
}

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

/// GetCategories returns the merged category list for the given scope: "post",
// "use_case", or "all". Matching between observed and suggested names is
// case-insensitive; the curated spelling wins on a hit.
func (s *CategoryService) GetCategories(ctx context.Context, scope string) ([]Category, error) {
	switch scope {
	case "post", "use_case", "all":
		// valid
	default:
		return nil, models.NewValidationError("Invalid category scope (post, use_case, all)")
	}

	var categories []Category
	err := cache.Aside(ctx, cache.CategoriesKey(scope), &categories, cache.CategoriesTTL, func() error {
		var fetchErr error
		categories, fetchErr = s.buildCategories(ctx, scope)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) buildCategories(ctx context.Context, scope string) ([]Category, error) {
	var observed []repository.CategoryCount
	if scope == "post" || scope == "all" {
		counts, err := s.categoryRepo.ObservedCategories(ctx, models.ContentTypePost)
		if err != nil {
			return nil, err
		}
		observed = append(observed, counts...)
	}
	if scope == "use_case" || scope == "all" {
		counts, err := s.categoryRepo.ObservedCategories(ctx, models.ContentTypeUseCase)
		if err != nil {
			return nil, err
		}
		observed = append(observed, counts...)
	}

	// Fold observed counts case-insensitively, keeping the first spelling
	// seen for names outside the curated list.
	type entry struct {
		name      string
		count     int64
		suggested bool
	}
	merged := make(map[string]*entry)
	order := make([]string, 0, len(suggestedCategories)+len(observed))

	for _, name := range suggestedCategories {
		key := strings.ToLower(name)
		merged[key] = &entry{name: name, suggested: true}
		order = append(order, key)
	}
	for _, oc := range observed {
		key := strings.ToLower(oc.Category)
		if e, ok := merged[key]; ok {
			e.count += oc.Count
			continue
		}
		merged[key] = &entry{name: oc.Category, count: oc.Count}
		order = append(order, key)
	}

	categories := make([]Category, 0, len(order))
	for _, key := range order {
		e := merged[key]
		categories = append(categories, Category{Name: e.name, Count: e.count, Suggested: e.suggested})
	}

	// Busiest first; suggested entries with no usage sink in alphabetical order.
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})

	return categories, nil
}
