package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"commons/internal/models"
)

func setupPostRepo(t *testing.T) PostRepository {
	t.Helper()
	db := setupTestDB(t, &models.Post{}, &models.Hashtag{})
	return NewPostRepository(db)
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := &models.Post{Content: "hello #go", UserID: 1}
	require.NoError(t, repo.Create(ctx, post))
	require.NotZero(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello #go", got.Content)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_ListOrdering(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &models.Post{Content: content, UserID: 1}))
	}

	posts, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostRepository_ListTop(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	counts := map[string]int{"low": 1, "high": 9, "mid": 4}
	for content, count := range counts {
		post := &models.Post{Content: content, UserID: 1}
		require.NoError(t, repo.Create(ctx, post))
		require.NoError(t, repo.SetReactionCount(ctx, post.ID, count))
	}

	posts, err := repo.ListTop(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "high", posts[0].Content)
	assert.Equal(t, "mid", posts[1].Content)
	assert.Equal(t, "low", posts[2].Content)
}

func TestPostRepository_ListByHashtag(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	tag, err := repo.FindOrCreateHashtag(ctx, "golang")
	require.NoError(t, err)
	other, err := repo.FindOrCreateHashtag(ctx, "misc")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, &models.Post{
		Content: "tagged", UserID: 1, Hashtags: []models.Hashtag{*tag},
	}))
	require.NoError(t, repo.Create(ctx, &models.Post{
		Content: "other tag", UserID: 1, Hashtags: []models.Hashtag{*other},
	}))
	require.NoError(t, repo.Create(ctx, &models.Post{Content: "untagged", UserID: 1}))

	posts, err := repo.ListByHashtag(ctx, "golang", 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "tagged", posts[0].Content)

	posts, err = repo.ListByHashtag(ctx, "nope", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_GetByUserID(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Post{Content: "mine", UserID: 1}))
	require.NoError(t, repo.Create(ctx, &models.Post{Content: "theirs", UserID: 2}))

	posts, err := repo.GetByUserID(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Content)
}

func TestPostRepository_FindOrCreateHashtag(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	first, err := repo.FindOrCreateHashtag(ctx, "golang")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.FindOrCreateHashtag(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same name resolves to the same row")
}

func TestPostRepository_SetReactionCount(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := &models.Post{Content: "hello", UserID: 1}
	require.NoError(t, repo.Create(ctx, post))

	require.NoError(t, repo.SetReactionCount(ctx, post.ID, 12))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.ReactionCount)

	err = repo.SetReactionCount(ctx, 9999, 12)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_SetReactionCountSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	// The count push must not touch updated_at, so it has to be a plain
	// column update rather than a full save.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "reaction_count"=$1 WHERE id = $2 AND "posts"."deleted_at" IS NULL`)).
		WithArgs(12, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetReactionCount(context.Background(), 10, 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}
