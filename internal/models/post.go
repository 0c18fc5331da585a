package models

import "time"

type Post struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null;size:200" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null;size:220" json:"slug"`
	Content     string `gorm:"not null" json:"content"`
	AuthorID    int    `gorm:"not null;index" json:"author"`
	Author      User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	ViewsCount  int    `gorm:"not null;default:0" json:"views_count"`
	ReadingTime int    `gorm:"not null;default:1" json:"reading_time"`

	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// CreatePostRequest carries the only client-writable fields. Slug, author,
// timestamps, views and reading time are server-controlled; anything the
// client sends for them is dropped at binding.
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
