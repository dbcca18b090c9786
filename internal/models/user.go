// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the identity service.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	// Blocked users keep their account and data but cannot log in.
	Blocked          bool       `gorm:"default:false" json:"blocked"`
	BlockedReason    string     `json:"blocked_reason,omitempty"`
	BlockedAt        *time.Time `json:"blocked_at,omitempty"`
	BlockedByAdminID *uint      `json:"blocked_by_admin_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
