package repository

import (
	"context"
	"errors"

	"p2psandbox/internal/cache"
	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for forum post data operations.
// Soft-deleted posts are invisible to every method here: gorm's DeletedAt
// scope excludes them from reads and counts, and Delete only flags the row.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, category, sort string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Preload("Organization").
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Soft-deleted and never-existed are indistinguishable here.
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []uint, currentUserID uint) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.id IN ?", ids).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, category, sort string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User")
	if category != "" {
		base = base.Where("category = ?", category)
	}
	err := applyContentSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyContentSort appends the ORDER BY clause for the requested sort type.
// likes_count is a SELECT alias from the details subqueries; both PostgreSQL
// and SQLite allow referencing it in ORDER BY within the same query level.
func applyContentSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("likes_count DESC, created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

// applyPostDetails adds subqueries to fetch engagement counts and the current
// user's toggle state in a single query. The engagements table is the source
// of truth; these counters are derived, never stored.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM engagements WHERE engagements.content_type = 'post' AND engagements.kind = 'like' AND engagements.content_id = posts.id) as likes_count, " +
		"(SELECT COUNT(*) FROM engagements WHERE engagements.content_type = 'post' AND engagements.kind = 'bookmark' AND engagements.content_id = posts.id) as bookmarks_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM engagements WHERE engagements.content_type = 'post' AND engagements.kind = 'like' AND engagements.content_id = posts.id AND engagements.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM engagements WHERE engagements.content_type = 'post' AND engagements.kind = 'bookmark' AND engagements.content_id = posts.id AND engagements.user_id = ?) as bookmarked",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as bookmarked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
