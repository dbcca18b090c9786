// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// TargetType identifies what kind of entity a reaction is attached to.
// The set is closed: rollup and cleanup logic switch on it directly.
type TargetType string

const (
	TargetPost    TargetType = "POST"
	TargetComment TargetType = "COMMENT"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// ParseTargetType converts a string (route param or query value) into a
// TargetType, accepting any casing.
func ParseTargetType(s string) (TargetType, bool) {
	switch TargetType(strings.ToUpper(s)) {
	case TargetPost:
		return TargetPost, true
	case TargetComment:
		return TargetComment, true
	}
	return "", false
}

// ReactionType is the kind of reaction a user left on a target.
type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionHaha  ReactionType = "HAHA"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
)

// Valid reports whether r is a known reaction type.
func (r ReactionType) Valid() bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reaction is one user's reaction to one target. At most one row exists per
// (user, target, target type) tuple; repeating the same reaction removes it,
// a different reaction replaces it.
type Reaction struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetID     uint         `gorm:"not null;uniqueIndex:idx_user_target" json:"target_id"`
	TargetType   TargetType   `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_target" json:"target_type"`
	ReactionType ReactionType `gorm:"type:varchar(16);not null" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ParseReactionType converts a string into a ReactionType, accepting any casing.
func ParseReactionType(s string) (ReactionType, bool) {
	r := ReactionType(strings.ToUpper(s))
	if r.Valid() {
		return r, true
	}
	return "", false
}
