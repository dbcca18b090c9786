package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commons/internal/auth"
	"commons/internal/cache"
	"commons/internal/client"
	"commons/internal/config"
	"commons/internal/database"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/repository"
	"commons/internal/service"
)

// tokenTTL is the lifetime of issued bearer tokens.
const tokenTTL = 24 * time.Hour

// ContentServer serves the content service: posts, comments, and the
// reaction count rollup.
type ContentServer struct {
	baseServer
	tokens         *auth.TokenService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewContentServer creates a content server, connecting its database and
// Redis from config.
func NewContentServer(cfg *config.Config) (*ContentServer, error) {
	db, err := database.Connect(cfg, "content",
		&models.Post{}, &models.Hashtag{}, &models.Comment{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	reactionsClient := client.NewReactionsClient(cfg.ReactionsURL, cfg.PeerTimeout)

	return NewContentServerWithDeps(cfg, db, cache.GetClient(), reactionsClient), nil
}

// NewContentServerWithDeps creates a content server from already initialized
// dependencies. Use this in tests.
func NewContentServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, reactions client.ReactionsClient) *ContentServer {
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	postService := service.NewPostService(postRepo, commentRepo, reactions)
	commentService := service.NewCommentService(commentRepo, postRepo, postService.Recalculate)

	return &ContentServer{
		baseServer: baseServer{
			config: cfg,
			db:     db,
			redis:  rdb,
			prom:   middleware.InitMetrics("commons-content"),
		},
		tokens:         auth.NewTokenService(cfg.JWTSecret, tokenTTL),
		postService:    postService,
		commentService: commentService,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *ContentServer) SetupMiddleware(app *fiber.App) {
	s.setupMiddleware(app, "content")
}

// SetupRoutes configures all routes for the content service
func (s *ContentServer) SetupRoutes(app *fiber.App) {
	s.setupHealth(app, "content")

	api := app.Group("/api", middleware.TrustedUser)

	// Public browse
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/top", s.GetTopPosts)
	posts.Get("/hashtag/:name", s.GetPostsByHashtag)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)
	api.Get("/users/:id/posts", s.GetUserPosts)

	// Mutations need a resolved identity
	protected := api.Group("", middleware.RequireIdentity)
	protected.Post("/posts", s.CreatePost)
	protected.Post("/posts/:id/comments", s.CreateComment)
	protected.Put("/posts/:id", s.UpdatePost)
	protected.Delete("/posts/:id", s.DeletePost)
	protected.Put("/comments/:commentId", s.UpdateComment)
	protected.Delete("/comments/:commentId", s.DeleteComment)

	// Count sync endpoints, called by the reactions service over the
	// internal network; no bearer token required.
	internal := app.Group("/api/internal")
	internal.Put("/posts/:id/reaction-count", s.SetPostReactionCount)
	internal.Put("/comments/:commentId/reaction-count", s.SetCommentReactionCount)
	internal.Post("/posts/:id/recalculate", s.RecalculatePost)

	// Admin deletes, called by the reactions orchestrator with the admin's
	// forwarded bearer token. The token is re-verified here.
	admin := api.Group("/admin", middleware.AuthRequired(s.tokens), middleware.AdminRequired)
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Delete("/comments/:commentId", s.AdminDeleteComment)
}
