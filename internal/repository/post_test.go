package repository

import (
	"context"
	"testing"
	"time"

	"p2psandbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_GetByID_Details(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	engRepo := NewEngagementRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	other := seedUser(t, db, "other")
	post := seedPost(t, db, author.ID, "Hydraulic press tuning", "equipment")

	_, err := engRepo.Toggle(ctx, reader.ID, models.EngagementLike, models.ContentTypePost, post.ID)
	require.NoError(t, err)
	_, err = engRepo.Toggle(ctx, other.ID, models.EngagementLike, models.ContentTypePost, post.ID)
	require.NoError(t, err)
	_, err = engRepo.Toggle(ctx, reader.ID, models.EngagementBookmark, models.ContentTypePost, post.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
	assert.Equal(t, 1, got.BookmarksCount)
	assert.True(t, got.Liked)
	assert.True(t, got.Bookmarked)
	assert.Equal(t, "author", got.User.Username)

	// A viewer without edges sees the same counts but no personal flags.
	anon, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, anon.LikesCount)
	assert.False(t, anon.Liked)
	assert.False(t, anon.Bookmarked)
}

func TestPostRepository_SoftDelete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "Will be removed", "general")

	require.NoError(t, repo.Delete(ctx, post.ID))

	// Reads report not found, indistinguishable from a post that never was.
	_, err := repo.GetByID(ctx, post.ID, 0)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	count, err := repo.CountByUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	posts, err := repo.List(ctx, "", "new", 20, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// The row itself survives deletion for the audit trail.
	var rows int64
	require.NoError(t, db.Unscoped().Model(&models.Post{}).Where("id = ?", post.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	// Deleting again is a no-op at this layer.
	assert.NoError(t, repo.Delete(ctx, post.ID))
}

func TestPostRepository_List_FilterAndSort(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	engRepo := NewEngagementRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	older := seedPost(t, db, author.ID, "Older equipment post", "equipment")
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := seedPost(t, db, author.ID, "Newer equipment post", "equipment")
	seedPost(t, db, author.ID, "Sourcing post", "sourcing")

	_, err := engRepo.Toggle(ctx, fan.ID, models.EngagementLike, models.ContentTypePost, older.ID)
	require.NoError(t, err)

	byCategory, err := repo.List(ctx, "equipment", "new", 20, 0, 0)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, newer.ID, byCategory[0].ID)

	top, err := repo.List(ctx, "equipment", "top", 20, 0, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, older.ID, top[0].ID)
	assert.Equal(t, 1, top[0].LikesCount)
}

func TestPostRepository_Update(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "Original title", "general")

	now := time.Now().UTC()
	post.Title = "Edited title"
	post.EditedAt = &now
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Edited title", got.Title)
	require.NotNil(t, got.EditedAt)
}
