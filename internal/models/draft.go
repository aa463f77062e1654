package models

import "time"

// Draft is author-private unpublished content. It is a separate entity from
// Post and UseCase on purpose: a draft has no public visibility and no
// engagement edges, and publishing always spawns a new content item rather
// than flipping a status flag. Drafts are hard-deleted (no audit trail).
type Draft struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	ContentType ContentType `gorm:"not null" json:"content_type"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	Content     string      `gorm:"type:text" json:"content"`
	Category    string      `json:"category"`
	Industry    string      `json:"industry"`
	Region      string      `json:"region"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
