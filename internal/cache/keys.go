package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	PostKeyPrefix    = "post:%d"
	UseCaseKeyPrefix = "usecase:%d"
	CategoriesPrefix = "categories:%s"
	StatsKeyPrefix   = "stats:%d"
)

const (
	UserTTL       = 5 * time.Minute
	PostTTL       = 30 * time.Minute
	UseCaseTTL    = 30 * time.Minute
	CategoriesTTL = 10 * time.Minute
	StatsTTL      = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UseCaseKey(useCaseID uint) string {
	return fmt.Sprintf(UseCaseKeyPrefix, useCaseID)
}

func CategoriesKey(contentType string) string {
	return fmt.Sprintf(CategoriesPrefix, contentType)
}

func StatsKey(userID uint) string {
	return fmt.Sprintf(StatsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateStats(ctx context.Context, userID uint) {
	Invalidate(ctx, StatsKey(userID))
}

// InvalidateCategories drops the merged category aggregations. Called on any
// content mutation since a create, edit, or delete can change the groupings.
func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey("post"))
	Invalidate(ctx, CategoriesKey("use_case"))
	Invalidate(ctx, CategoriesKey("all"))
}
