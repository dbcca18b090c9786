package models

// AdminActionConfirmation is the ephemeral response returned after an
// orchestrated multi-service admin action completes. It is never persisted.
type AdminActionConfirmation struct {
	Message  string `json:"message"`
	TargetID uint   `json:"target_id"`
	Action   string `json:"action"`
}

// Admin action names used in confirmations.
const (
	ActionDeletePost    = "DELETE_POST"
	ActionDeleteComment = "DELETE_COMMENT"
	ActionBlockUser     = "BLOCK_USER"
	ActionUnblockUser   = "UNBLOCK_USER"
)
