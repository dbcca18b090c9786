// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// FriendRequestStatus represents the status of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestPending indicates the receiver has not yet responded.
	FriendRequestPending FriendRequestStatus = "PENDING"
	// FriendRequestAccepted indicates the receiver accepted the request.
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	// FriendRequestRejected indicates the receiver rejected the request.
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

// FriendRequest represents a friend request between two identity-service users.
type FriendRequest struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	SenderID   uint                `gorm:"not null;uniqueIndex:idx_sender_receiver" json:"sender_id"`
	ReceiverID uint                `gorm:"not null;uniqueIndex:idx_sender_receiver" json:"receiver_id"`
	Status     FriendRequestStatus `gorm:"type:varchar(16);default:'PENDING'" json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}
