package models

import "time"

// UserStats is a cached, fully-recomputable aggregate per user. It is never
// adjusted incrementally: every recompute derives it from the live content
// and engagement tables and overwrites the row, which makes concurrent
// recomputes safe to run in any order.
type UserStats struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	PublishedPosts    int       `json:"published_posts"`
	PublishedUseCases int       `json:"published_use_cases"`
	LikesReceived     int       `json:"likes_received"`
	BookmarksReceived int       `json:"bookmarks_received"`
	DraftCount        int       `json:"draft_count"`
	Reputation        int       `json:"reputation"`
	RecomputedAt      time.Time `json:"recomputed_at"`
}

// Reputation weights. Use cases are weighted higher than forum posts since
// they are the platform's primary shared artifact.
const (
	ReputationPerPost     = 5
	ReputationPerUseCase  = 10
	ReputationPerLike     = 2
	ReputationPerBookmark = 3
)

// ComputeReputation derives the reputation score from the counted inputs.
func ComputeReputation(posts, useCases, likes, bookmarks int) int {
	return posts*ReputationPerPost +
		useCases*ReputationPerUseCase +
		likes*ReputationPerLike +
		bookmarks*ReputationPerBookmark
}

// Activity is one entry in a user's chronological activity feed.
type Activity struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Action      string      `gorm:"not null" json:"action"`
	ContentType ContentType `json:"content_type"`
	ContentID   uint        `json:"content_id"`
	// Title is a snapshot taken at log time; the content item may be edited
	// or soft-deleted later.
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity feed actions.
const (
	ActionContentCreated  = "content_created"
	ActionContentUpdated  = "content_updated"
	ActionContentDeleted  = "content_deleted"
	ActionDraftSaved      = "draft_saved"
	ActionDraftDeleted    = "draft_deleted"
	ActionDraftPublished  = "draft_published"
	ActionLikeToggled     = "like_toggled"
	ActionBookmarkToggled = "bookmark_toggled"
)
