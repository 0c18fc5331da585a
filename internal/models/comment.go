package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	PostID   int    `gorm:"not null;index" json:"post"`
	Post     Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID int    `gorm:"not null" json:"author"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Content  string `gorm:"not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
