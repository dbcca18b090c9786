package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commons/internal/cache"
	"commons/internal/client"
	"commons/internal/config"
	"commons/internal/database"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/repository"
	"commons/internal/service"
)

// ReactionsServer serves the reactions service: the toggle engine, count
// queries, and the cross-service admin orchestrator.
type ReactionsServer struct {
	baseServer
	reactionService *service.ReactionService
	adminService    *service.AdminService
}

// NewReactionsServer creates a reactions server, connecting its database and
// Redis from config.
func NewReactionsServer(cfg *config.Config) (*ReactionsServer, error) {
	db, err := database.Connect(cfg, "reactions", &models.Reaction{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	contentClient := client.NewContentClient(cfg.ContentURL, cfg.PeerTimeout)
	identityClient := client.NewIdentityClient(cfg.IdentityURL, cfg.PeerTimeout)

	return NewReactionsServerWithDeps(cfg, db, cache.GetClient(), contentClient, identityClient), nil
}

// NewReactionsServerWithDeps creates a reactions server from already
// initialized dependencies. Use this in tests.
func NewReactionsServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, content client.ContentClient, identity client.IdentityClient) *ReactionsServer {
	reactionRepo := repository.NewReactionRepository(db)
	reactionService := service.NewReactionService(reactionRepo, content)

	return &ReactionsServer{
		baseServer: baseServer{
			config: cfg,
			db:     db,
			redis:  rdb,
			prom:   middleware.InitMetrics("commons-reactions"),
		},
		reactionService: reactionService,
		adminService:    service.NewAdminService(reactionService, content, identity),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *ReactionsServer) SetupMiddleware(app *fiber.App) {
	s.setupMiddleware(app, "reactions")
}

// SetupRoutes configures all routes for the reactions service
func (s *ReactionsServer) SetupRoutes(app *fiber.App) {
	s.setupHealth(app, "reactions")

	api := app.Group("/api")

	// Identity arrives via trusted headers set by the gateway
	reactions := api.Group("/reactions", middleware.TrustedUser)
	reactions.Get("/:targetType/:id/count", s.GetReactionCount)
	reactions.Get("/:targetType/:id", s.ListReactions)

	protected := reactions.Group("", middleware.RequireIdentity)
	protected.Post("/:targetType/:id", s.ToggleReaction)
	protected.Delete("/:targetType/:id", s.RemoveReaction)

	// Internal cleanup used by peers when a target or account disappears
	internal := app.Group("/api/internal/reactions")
	internal.Delete("/users/:id", s.DeleteAllForUser)
	internal.Delete("/:targetType/:id", s.DeleteAllForTarget)

	// Orchestrated admin actions, forwarded here by the identity gateway
	admin := api.Group("/admin", middleware.TrustedUser, middleware.RequireIdentity)
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Delete("/comments/:id", s.AdminDeleteComment)
	admin.Post("/users/:id/block", s.AdminBlockUser)
	admin.Post("/users/:id/unblock", s.AdminUnblockUser)
}
