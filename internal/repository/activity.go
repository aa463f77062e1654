package repository

import (
	"context"

	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository appends to and reads the per-user activity feed.
type ActivityRepository interface {
	Log(ctx context.Context, entry *models.Activity) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Log(ctx context.Context, entry *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Activity, error) {
	var entries []*models.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
