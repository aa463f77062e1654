package repository

import (
	"context"

	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// CategoryCount is one observed category and how many live items carry it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CategoryRepository aggregates the categories in use across live content.
type CategoryRepository interface {
	ObservedCategories(ctx context.Context, contentType models.ContentType) ([]CategoryCount, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ObservedCategories(ctx context.Context, contentType models.ContentType) ([]CategoryCount, error) {
	var counts []CategoryCount

	query := r.db.WithContext(ctx)
	switch contentType {
	case models.ContentTypePost:
		query = query.Model(&models.Post{})
	case models.ContentTypeUseCase:
		query = query.Model(&models.UseCase{})
	default:
		return nil, models.NewValidationError("invalid content type: " + string(contentType))
	}

	err := query.
		Select("category, COUNT(*) as count").
		Where("category <> ''").
		Group("category").
		Order("count DESC, category ASC").
		Find(&counts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return counts, nil
}
