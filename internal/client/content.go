package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ContentClient talks to the content service.
type ContentClient interface {
	// PushPostReactionCount updates a post's direct reaction count.
	PushPostReactionCount(ctx context.Context, postID uint, count int64) error
	// PushCommentReactionCount updates a comment's reaction count.
	PushCommentReactionCount(ctx context.Context, commentID uint, count int64) error
	// DeletePostAsAdmin deletes a post on behalf of an admin, forwarding the
	// admin's original credentials.
	DeletePostAsAdmin(ctx context.Context, postID uint, originalAuth string) error
	// DeleteCommentAsAdmin deletes a comment on behalf of an admin.
	DeleteCommentAsAdmin(ctx context.Context, commentID uint, originalAuth string) error
}

type contentClient struct {
	*peerClient
}

// NewContentClient returns a ContentClient for the given base URL.
func NewContentClient(baseURL string, timeout time.Duration) ContentClient {
	return &contentClient{newPeerClient("content", baseURL, timeout)}
}

// reactionCountPayload is the body of internal count push requests.
type reactionCountPayload struct {
	ReactionCount int64 `json:"reactionCount"`
}

func (c *contentClient) PushPostReactionCount(ctx context.Context, postID uint, count int64) error {
	return c.doJSON(ctx, "push_post_count", http.MethodPut,
		fmt.Sprintf("/api/internal/posts/%d/reaction-count", postID),
		reactionCountPayload{ReactionCount: count}, nil, nil)
}

func (c *contentClient) PushCommentReactionCount(ctx context.Context, commentID uint, count int64) error {
	return c.doJSON(ctx, "push_comment_count", http.MethodPut,
		fmt.Sprintf("/api/internal/comments/%d/reaction-count", commentID),
		reactionCountPayload{ReactionCount: count}, nil, nil)
}

func (c *contentClient) DeletePostAsAdmin(ctx context.Context, postID uint, originalAuth string) error {
	return c.doJSON(ctx, "admin_delete_post", http.MethodDelete,
		fmt.Sprintf("/api/admin/posts/%d", postID),
		nil, nil, authHeaders(originalAuth))
}

func (c *contentClient) DeleteCommentAsAdmin(ctx context.Context, commentID uint, originalAuth string) error {
	return c.doJSON(ctx, "admin_delete_comment", http.MethodDelete,
		fmt.Sprintf("/api/admin/comments/%d", commentID),
		nil, nil, authHeaders(originalAuth))
}
