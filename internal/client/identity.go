package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// IdentityClient talks to the identity service.
type IdentityClient interface {
	// BlockUser blocks a user on behalf of an admin, forwarding the admin's
	// original credentials.
	BlockUser(ctx context.Context, userID uint, reason, originalAuth string) error
	// UnblockUser lifts a block on behalf of an admin.
	UnblockUser(ctx context.Context, userID uint, originalAuth string) error
}

type identityClient struct {
	*peerClient
}

// NewIdentityClient returns an IdentityClient for the given base URL.
func NewIdentityClient(baseURL string, timeout time.Duration) IdentityClient {
	return &identityClient{newPeerClient("identity", baseURL, timeout)}
}

type blockPayload struct {
	Reason string `json:"reason"`
}

// The identity service hosts these under /api/internal so its public gateway,
// which forwards all /api/admin traffic to the reactions orchestrator, never
// shadows them.
func (c *identityClient) BlockUser(ctx context.Context, userID uint, reason, originalAuth string) error {
	return c.doJSON(ctx, "block_user", http.MethodPost,
		fmt.Sprintf("/api/internal/users/%d/block", userID),
		blockPayload{Reason: reason}, nil, authHeaders(originalAuth))
}

func (c *identityClient) UnblockUser(ctx context.Context, userID uint, originalAuth string) error {
	return c.doJSON(ctx, "unblock_user", http.MethodPost,
		fmt.Sprintf("/api/internal/users/%d/unblock", userID),
		nil, nil, authHeaders(originalAuth))
}
