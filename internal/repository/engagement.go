package repository

import (
	"context"
	"time"

	"p2psandbox/internal/cache"
	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository manages like/bookmark edges. The toggle is the one
// operation with a read-then-write race in the system, so it is implemented
// as conditional single-statement writes rather than check-then-act.
type EngagementRepository interface {
	// Toggle flips the edge for the given tuple and returns whether the edge
	// exists after the call.
	Toggle(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, contentID uint) (bool, error)
	Count(ctx context.Context, kind models.EngagementKind, contentType models.ContentType, contentID uint) (int64, error)
	Exists(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, contentID uint) (bool, error)
	// ContentIDsByUser returns the content ids of the given type the user has
	// an edge of the given kind to, newest edge first.
	ContentIDsByUser(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, limit, offset int) ([]uint, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Toggle(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, contentID uint) (bool, error) {
	// INSERT ... ON CONFLICT DO NOTHING is atomic: of two concurrent calls
	// for the same tuple exactly one insert takes effect.
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO engagements (user_id, kind, content_type, content_id, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, kind, content_type, content_id) DO NOTHING`,
		userID, kind, contentType, contentID, time.Now().UTC(),
	)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 1 {
		r.invalidateContent(ctx, contentType, contentID)
		return true, nil
	}

	// Edge already existed: this call is an un-toggle. The delete is keyed by
	// the unique tuple, so a concurrent duplicate delete affects zero rows
	// and cannot over-remove.
	del := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND content_type = ? AND content_id = ?",
			userID, kind, contentType, contentID).
		Delete(&models.Engagement{})
	if del.Error != nil {
		return false, models.NewInternalError(del.Error)
	}
	r.invalidateContent(ctx, contentType, contentID)
	return false, nil
}

func (r *engagementRepository) invalidateContent(ctx context.Context, contentType models.ContentType, contentID uint) {
	switch contentType {
	case models.ContentTypePost:
		cache.Invalidate(ctx, cache.PostKey(contentID))
	case models.ContentTypeUseCase:
		cache.Invalidate(ctx, cache.UseCaseKey(contentID))
	}
}

func (r *engagementRepository) Count(ctx context.Context, kind models.EngagementKind, contentType models.ContentType, contentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Engagement{}).
		Where("kind = ? AND content_type = ? AND content_id = ?", kind, contentType, contentID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *engagementRepository) Exists(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, contentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Engagement{}).
		Where("user_id = ? AND kind = ? AND content_type = ? AND content_id = ?",
			userID, kind, contentType, contentID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *engagementRepository) ContentIDsByUser(ctx context.Context, userID uint, kind models.EngagementKind, contentType models.ContentType, limit, offset int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Engagement{}).
		Where("user_id = ? AND kind = ? AND content_type = ?", userID, kind, contentType).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
