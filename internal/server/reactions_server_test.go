package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"commons/internal/config"
	"commons/internal/middleware"
	"commons/internal/models"
)

type contentStub struct {
	pushPostFn      func(ctx context.Context, postID uint, count int64) error
	pushCommentFn   func(ctx context.Context, commentID uint, count int64) error
	deletePostFn    func(ctx context.Context, postID uint, originalAuth string) error
	deleteCommentFn func(ctx context.Context, commentID uint, originalAuth string) error
}

func (s *contentStub) PushPostReactionCount(ctx context.Context, postID uint, count int64) error {
	if s.pushPostFn != nil {
		return s.pushPostFn(ctx, postID, count)
	}
	return nil
}

func (s *contentStub) PushCommentReactionCount(ctx context.Context, commentID uint, count int64) error {
	if s.pushCommentFn != nil {
		return s.pushCommentFn(ctx, commentID, count)
	}
	return nil
}

func (s *contentStub) DeletePostAsAdmin(ctx context.Context, postID uint, originalAuth string) error {
	if s.deletePostFn != nil {
		return s.deletePostFn(ctx, postID, originalAuth)
	}
	return nil
}

func (s *contentStub) DeleteCommentAsAdmin(ctx context.Context, commentID uint, originalAuth string) error {
	if s.deleteCommentFn != nil {
		return s.deleteCommentFn(ctx, commentID, originalAuth)
	}
	return nil
}

type identityStub struct {
	blockFn   func(ctx context.Context, userID uint, reason, originalAuth string) error
	unblockFn func(ctx context.Context, userID uint, originalAuth string) error
}

func (s *identityStub) BlockUser(ctx context.Context, userID uint, reason, originalAuth string) error {
	if s.blockFn != nil {
		return s.blockFn(ctx, userID, reason, originalAuth)
	}
	return nil
}

func (s *identityStub) UnblockUser(ctx context.Context, userID uint, originalAuth string) error {
	if s.unblockFn != nil {
		return s.unblockFn(ctx, userID, originalAuth)
	}
	return nil
}

// The Prometheus middleware registers collectors globally, so the server is
// built once and shared by every test in this package.
var (
	reactionsOnce     sync.Once
	reactionsApp      *fiber.App
	reactionsContent  *contentStub
	reactionsIdentity *identityStub
)

func reactionsTestApp(t *testing.T) (*fiber.App, *contentStub, *identityStub) {
	t.Helper()

	reactionsOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if err != nil {
			t.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.Reaction{}); err != nil {
			t.Fatalf("Failed to migrate database: %v", err)
		}

		reactionsContent = &contentStub{}
		reactionsIdentity = &identityStub{}

		srv := NewReactionsServerWithDeps(&config.Config{}, db, nil, reactionsContent, reactionsIdentity)
		reactionsApp = fiber.New()
		srv.SetupRoutes(reactionsApp)
	})
	return reactionsApp, reactionsContent, reactionsIdentity
}

func toggleReq(t *testing.T, userID uint, targetType string, targetID uint, reactionType string) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]string{"reaction_type": reactionType})
	require.NoError(t, err)

	req := httptest.NewRequest("POST",
		fmt.Sprintf("/api/reactions/%s/%d", targetType, targetID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(middleware.HeaderUserID, fmt.Sprintf("%d", userID))
	}
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest))
}

func TestReactionsServer_ToggleFlow(t *testing.T) {
	app, _, _ := reactionsTestApp(t)

	// First toggle creates
	resp, err := app.Test(toggleReq(t, 1, "post", 100, "like"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var reaction models.Reaction
	decodeJSON(t, resp, &reaction)
	assert.Equal(t, models.ReactionLike, reaction.ReactionType)
	assert.Equal(t, models.TargetPost, reaction.TargetType)

	// A different type replaces
	resp, err = app.Test(toggleReq(t, 1, "post", 100, "love"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &reaction)
	assert.Equal(t, models.ReactionLove, reaction.ReactionType)

	// The same type removes
	resp, err = app.Test(toggleReq(t, 1, "post", 100, "love"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Count is back to zero
	resp, err = app.Test(httptest.NewRequest("GET", "/api/reactions/post/100/count", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count struct {
		Count int64 `json:"count"`
	}
	decodeJSON(t, resp, &count)
	assert.Zero(t, count.Count)
}

func TestReactionsServer_ToggleRequiresIdentity(t *testing.T) {
	app, _, _ := reactionsTestApp(t)

	resp, err := app.Test(toggleReq(t, 0, "post", 101, "like"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestReactionsServer_InvalidParams(t *testing.T) {
	app, _, _ := reactionsTestApp(t)

	resp, err := app.Test(toggleReq(t, 1, "page", 102, "like"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(toggleReq(t, 1, "post", 102, "meh"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reactions/post/abc/count", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReactionsServer_RemoveWithoutReaction(t *testing.T) {
	app, _, _ := reactionsTestApp(t)

	req := httptest.NewRequest("DELETE", "/api/reactions/post/103", nil)
	req.Header.Set(middleware.HeaderUserID, "1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReactionsServer_AdminDeletePost(t *testing.T) {
	app, content, _ := reactionsTestApp(t)

	// Seed reactions on the post being deleted
	for userID := uint(1); userID <= 3; userID++ {
		resp, err := app.Test(toggleReq(t, userID, "post", 104, "like"))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	t.Run("missing original credentials", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/admin/posts/104", nil)
		req.Header.Set(middleware.HeaderUserID, "9")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("failed forward keeps reactions", func(t *testing.T) {
		content.deletePostFn = func(ctx context.Context, postID uint, originalAuth string) error {
			return models.NewUpstreamError("content service returned status 500", 500, nil)
		}
		defer func() { content.deletePostFn = nil }()

		req := httptest.NewRequest("DELETE", "/api/admin/posts/104", nil)
		req.Header.Set(middleware.HeaderUserID, "9")
		req.Header.Set(middleware.HeaderOriginalAuth, "Bearer admin-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		countResp, err := app.Test(httptest.NewRequest("GET", "/api/reactions/post/104/count", nil))
		require.NoError(t, err)
		var count struct {
			Count int64 `json:"count"`
		}
		decodeJSON(t, countResp, &count)
		assert.Equal(t, int64(3), count.Count)
	})

	t.Run("successful forward cleans up", func(t *testing.T) {
		var forwardedAuth string
		content.deletePostFn = func(ctx context.Context, postID uint, originalAuth string) error {
			forwardedAuth = originalAuth
			return nil
		}
		defer func() { content.deletePostFn = nil }()

		req := httptest.NewRequest("DELETE", "/api/admin/posts/104", nil)
		req.Header.Set(middleware.HeaderUserID, "9")
		req.Header.Set(middleware.HeaderOriginalAuth, "Bearer admin-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Bearer admin-token", forwardedAuth)

		var confirmation models.AdminActionConfirmation
		decodeJSON(t, resp, &confirmation)
		assert.Equal(t, models.ActionDeletePost, confirmation.Action)

		countResp, err := app.Test(httptest.NewRequest("GET", "/api/reactions/post/104/count", nil))
		require.NoError(t, err)
		var count struct {
			Count int64 `json:"count"`
		}
		decodeJSON(t, countResp, &count)
		assert.Zero(t, count.Count)
	})
}

func TestReactionsServer_AdminBlockUser(t *testing.T) {
	app, _, identity := reactionsTestApp(t)

	var gotReason string
	identity.blockFn = func(ctx context.Context, userID uint, reason, originalAuth string) error {
		gotReason = reason
		return nil
	}
	defer func() { identity.blockFn = nil }()

	body, err := json.Marshal(map[string]string{"reason": "spam"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/admin/users/5/block", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "9")
	req.Header.Set(middleware.HeaderOriginalAuth, "Bearer admin-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "spam", gotReason)

	var confirmation models.AdminActionConfirmation
	decodeJSON(t, resp, &confirmation)
	assert.Equal(t, models.ActionBlockUser, confirmation.Action)
	assert.Equal(t, uint(5), confirmation.TargetID)
}

func TestReactionsServer_InternalDeleteAllForUser(t *testing.T) {
	app, _, _ := reactionsTestApp(t)

	for _, targetID := range []uint{106, 107} {
		resp, err := app.Test(toggleReq(t, 6, "post", targetID, "wow"))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	resp, err := app.Test(toggleReq(t, 7, "post", 106, "like"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/internal/reactions/users/6", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Deleted int64 `json:"deleted"`
	}
	decodeJSON(t, resp, &result)
	assert.Equal(t, int64(2), result.Deleted)

	// Other users' reactions survive
	countResp, err := app.Test(httptest.NewRequest("GET", "/api/reactions/post/106/count", nil))
	require.NoError(t, err)
	var count struct {
		Count int64 `json:"count"`
	}
	decodeJSON(t, countResp, &count)
	assert.Equal(t, int64(1), count.Count)
}

func TestReactionsServer_InternalDeleteAll(t *testing.T) {
	app, _, _ := reactionsTestApp(t)

	for userID := uint(1); userID <= 2; userID++ {
		resp, err := app.Test(toggleReq(t, userID, "comment", 105, "haha"))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/internal/reactions/comment/105", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Deleted int64 `json:"deleted"`
	}
	decodeJSON(t, resp, &result)
	assert.Equal(t, int64(2), result.Deleted)
}
