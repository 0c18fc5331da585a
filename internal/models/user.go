package models

import "time"

type User struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null;size:150" json:"username"`
	Email        string `gorm:"size:254" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
