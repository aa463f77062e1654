package repository

import (
	"context"
	"errors"
	"time"

	"p2psandbox/internal/cache"
	"p2psandbox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository owns the cached per-user statistics row.
type StatsRepository interface {
	// Recompute derives the statistics row from the live content and
	// engagement tables and overwrites the cached row. It is a pure
	// function of current state: re-running it, in any order relative to
	// concurrent recomputes, converges to a correct row.
	Recompute(ctx context.Context, userID uint) (*models.UserStats, error)
	GetByUserID(ctx context.Context, userID uint) (*models.UserStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new statistics repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Recompute(ctx context.Context, userID uint) (*models.UserStats, error) {
	db := r.db.WithContext(ctx)

	var posts, useCases, drafts int64
	if err := db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.UseCase{}).Where("user_id = ?", userID).Count(&useCases).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Draft{}).Where("user_id = ?", userID).Count(&drafts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	likes, err := r.countReceived(ctx, userID, models.EngagementLike)
	if err != nil {
		return nil, err
	}
	bookmarks, err := r.countReceived(ctx, userID, models.EngagementBookmark)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{
		UserID:            userID,
		PublishedPosts:    int(posts),
		PublishedUseCases: int(useCases),
		LikesReceived:     int(likes),
		BookmarksReceived: int(bookmarks),
		DraftCount:        int(drafts),
		Reputation:        models.ComputeReputation(int(posts), int(useCases), int(likes), int(bookmarks)),
		RecomputedAt:      time.Now().UTC(),
	}

	// Single-row upsert keyed by user_id keeps concurrent recomputes safe:
	// whichever runs last wins with a row derived from live state.
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"published_posts", "published_use_cases", "likes_received",
			"bookmarks_received", "draft_count", "reputation", "recomputed_at",
		}),
	}).Create(stats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateStats(ctx, userID)
	return stats, nil
}

// countReceived sums engagement edges of the given kind pointing at the
// user's non-deleted content, across both content types. Edges whose target
// was soft-deleted do not count.
func (r *statsRepository) countReceived(ctx context.Context, userID uint, kind models.EngagementKind) (int64, error) {
	db := r.db.WithContext(ctx)

	var onPosts int64
	err := db.Model(&models.Engagement{}).
		Joins("JOIN posts ON posts.id = engagements.content_id").
		Where("engagements.content_type = ? AND engagements.kind = ?", models.ContentTypePost, kind).
		Where("posts.user_id = ? AND posts.deleted_at IS NULL", userID).
		Count(&onPosts).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	var onUseCases int64
	err = db.Model(&models.Engagement{}).
		Joins("JOIN use_cases ON use_cases.id = engagements.content_id").
		Where("engagements.content_type = ? AND engagements.kind = ?", models.ContentTypeUseCase, kind).
		Where("use_cases.user_id = ? AND use_cases.deleted_at IS NULL", userID).
		Count(&onUseCases).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	return onPosts + onUseCases, nil
}

func (r *statsRepository) GetByUserID(ctx context.Context, userID uint) (*models.UserStats, error) {
	var stats models.UserStats

	err := cache.Aside(ctx, cache.StatsKey(userID), &stats, cache.StatsTTL, func() error {
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A user with no recorded mutations has an all-zero row.
				stats = models.UserStats{UserID: userID}
				return nil
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
