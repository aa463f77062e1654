package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentType discriminates the two published content kinds.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeUseCase ContentType = "use_case"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	return t == ContentTypePost || t == ContentTypeUseCase
}

// Post represents a forum post. A soft-deleted post keeps its row (DeletedAt
// set) but is excluded from every listing, count, and detail fetch.
type Post struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	Content        string        `gorm:"type:text;not null" json:"content"`
	Category       string        `gorm:"index" json:"category"`
	UserID         uint          `gorm:"not null;index" json:"user_id"`
	User           User          `gorm:"foreignKey:UserID" json:"user"`
	OrganizationID *uint         `gorm:"index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	// EditedAt is nil until the first update, distinguishing "never edited"
	// from "edited at creation time".
	EditedAt *time.Time `json:"edited_at,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// BookmarksCount is not persisted; computed at query time
	BookmarksCount int `gorm:"->" json:"bookmarks_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Bookmarked indicates whether the current requesting user bookmarked this post (computed)
	Bookmarked bool           `gorm:"->" json:"bookmarked"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// UseCase represents a published manufacturing use case. It follows the same
// soft-delete and engagement rules as Post.
type UseCase struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	Summary        string        `json:"summary"`
	Content        string        `gorm:"type:text;not null" json:"content"`
	Category       string        `gorm:"index" json:"category"`
	Industry       string        `gorm:"index" json:"industry"`
	Region         string        `json:"region"`
	UserID         uint          `gorm:"not null;index" json:"user_id"`
	User           User          `gorm:"foreignKey:UserID" json:"user"`
	OrganizationID *uint         `gorm:"index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	EditedAt       *time.Time    `json:"edited_at,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// BookmarksCount is not persisted; computed at query time
	BookmarksCount int            `gorm:"->" json:"bookmarks_count"`
	Liked          bool           `gorm:"->" json:"liked"`
	Bookmarked     bool           `gorm:"->" json:"bookmarked"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
