package models

import "time"

// EngagementKind is the edge variant: like or bookmark.
type EngagementKind string

const (
	EngagementLike     EngagementKind = "like"
	EngagementBookmark EngagementKind = "bookmark"
)

// Valid reports whether k is a known engagement kind.
func (k EngagementKind) Valid() bool {
	return k == EngagementLike || k == EngagementBookmark
}

// Engagement records that a user liked or bookmarked a content item.
// The (UserID, Kind, ContentType, ContentID) tuple is unique; the edge table
// is the source of truth and displayed counters are computed from it.
// Rows are hard-deleted on un-toggle, so there is no DeletedAt here.
type Engagement struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_engagement_edge" json:"user_id"`
	Kind        EngagementKind `gorm:"not null;uniqueIndex:idx_engagement_edge" json:"kind"`
	ContentType ContentType    `gorm:"not null;uniqueIndex:idx_engagement_edge" json:"content_type"`
	ContentID   uint           `gorm:"not null;uniqueIndex:idx_engagement_edge" json:"content_id"`
	CreatedAt   time.Time      `json:"created_at"`
}
