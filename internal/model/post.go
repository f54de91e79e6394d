package model

import "time"

// Post represents a blog post owned by exactly one user.
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:100;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	DatePosted time.Time `json:"date_posted" gorm:"not null;index"`

	// Relations
	Author User `json:"author" gorm:"foreignKey:UserID"`
}
