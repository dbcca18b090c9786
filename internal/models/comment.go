// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments reference their post by
// id only; the rollup reads them by post_id so no back-pointer is needed.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`

	// ReactionCount is the comment's direct reaction count as last pushed
	// by the reactions service.
	ReactionCount int `gorm:"not null;default:0" json:"reaction_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
