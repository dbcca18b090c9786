// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the content service. The author lives in the
// identity service, so only the numeric user id is stored here.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`

	// ReactionCount is the cached aggregate: reactions directly on the
	// post plus the sum of every child comment's count. The reactions
	// service owns the source of truth; this value is refreshed by
	// explicit recalculation and may briefly lag.
	ReactionCount int `gorm:"not null;default:0" json:"reaction_count"`

	Hashtags []Hashtag `gorm:"many2many:post_hashtags;" json:"hashtags,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Hashtag is a normalized tag attached to posts. Names are stored lowercase
// without the leading '#'.
type Hashtag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}
