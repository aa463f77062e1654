package repository

import (
	"context"
	"errors"

	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// DraftRepository defines persistence operations for drafts. Drafts are
// hard-deleted: they carry no audit requirement.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.Draft) error
	GetByID(ctx context.Context, id uint) (*models.Draft, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Draft, error)
	Update(ctx context.Context, draft *models.Draft) error
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, draft *models.Draft) error {
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *draftRepository) GetByID(ctx context.Context, id uint) (*models.Draft, error) {
	var draft models.Draft
	if err := r.db.WithContext(ctx).First(&draft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Draft", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &draft, nil
}

func (r *draftRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Draft, error) {
	var drafts []*models.Draft
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&drafts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return drafts, nil
}

func (r *draftRepository) Update(ctx context.Context, draft *models.Draft) error {
	if err := r.db.WithContext(ctx).Save(draft).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *draftRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Draft{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *draftRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Draft{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
