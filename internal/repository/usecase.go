package repository

import (
	"context"
	"errors"

	"p2psandbox/internal/cache"
	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// UseCaseRepository defines the interface for manufacturing use case data
// operations. It mirrors PostRepository: soft-deleted rows are invisible to
// every read and count.
type UseCaseRepository interface {
	Create(ctx context.Context, useCase *models.UseCase) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.UseCase, error)
	GetByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.UseCase, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.UseCase, error)
	List(ctx context.Context, category, industry, sort string, limit, offset int, currentUserID uint) ([]*models.UseCase, error)
	Update(ctx context.Context, useCase *models.UseCase) error
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type useCaseRepository struct {
	db *gorm.DB
}

// NewUseCaseRepository creates a new use case repository
func NewUseCaseRepository(db *gorm.DB) UseCaseRepository {
	return &useCaseRepository{db: db}
}

func (r *useCaseRepository) Create(ctx context.Context, useCase *models.UseCase) error {
	if err := r.db.WithContext(ctx).Create(useCase).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *useCaseRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.UseCase, error) {
	var useCase models.UseCase

	fetch := func() error {
		err := r.applyUseCaseDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Organization").
			First(&useCase, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Use case", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.UseCaseKey(id), &useCase, cache.UseCaseTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &useCase, nil
}

func (r *useCaseRepository) GetByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.UseCase, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var useCases []*models.UseCase
	err := r.applyUseCaseDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("use_cases.id IN ?", ids).
		Order("created_at DESC").
		Find(&useCases).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return useCases, nil
}

func (r *useCaseRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.UseCase, error) {
	var useCases []*models.UseCase
	err := r.applyUseCaseDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&useCases).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return useCases, nil
}

func (r *useCaseRepository) List(ctx context.Context, category, industry, sort string, limit, offset int, currentUserID uint) ([]*models.UseCase, error) {
	var useCases []*models.UseCase
	base := r.applyUseCaseDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User")
	if category != "" {
		base = base.Where("category = ?", category)
	}
	if industry != "" {
		base = base.Where("industry = ?", industry)
	}
	err := applyContentSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&useCases).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return useCases, nil
}

// applyUseCaseDetails adds subqueries to fetch engagement counts and the
// current user's toggle state in a single query.
func (r *useCaseRepository) applyUseCaseDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "use_cases.*, " +
		"(SELECT COUNT(*) FROM engagements WHERE engagements.content_type = 'use_case' AND engagements.kind = 'like' AND engagements.content_id = use_cases.id) as likes_count, " +
		"(SELECT COUNT(*) FROM engagements WHERE engagements.content_type = 'use_case' AND engagements.kind = 'bookmark' AND engagements.content_id = use_cases.id) as bookmarks_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM engagements WHERE engagements.content_type = 'use_case' AND engagements.kind = 'like' AND engagements.content_id = use_cases.id AND engagements.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM engagements WHERE engagements.content_type = 'use_case' AND engagements.kind = 'bookmark' AND engagements.content_id = use_cases.id AND engagements.user_id = ?) as bookmarked",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as bookmarked")
}

func (r *useCaseRepository) Update(ctx context.Context, useCase *models.UseCase) error {
	if err := r.db.WithContext(ctx).Save(useCase).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.UseCaseKey(useCase.ID))
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *useCaseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.UseCase{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.UseCaseKey(id))
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *useCaseRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UseCase{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
