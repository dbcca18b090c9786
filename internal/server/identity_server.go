package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commons/internal/auth"
	"commons/internal/cache"
	"commons/internal/config"
	"commons/internal/database"
	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/repository"
	"commons/internal/service"
)

// IdentityServer serves the identity service: accounts, auth, friend
// requests, and the public gateway in front of the other services.
type IdentityServer struct {
	baseServer
	tokens        *auth.TokenService
	userService   *service.UserService
	friendService *service.FriendService
}

// NewIdentityServer creates an identity server, connecting its database and
// Redis from config.
func NewIdentityServer(cfg *config.Config) (*IdentityServer, error) {
	db, err := database.Connect(cfg, "identity",
		&models.User{}, &models.FriendRequest{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewIdentityServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewIdentityServerWithDeps creates an identity server from already
// initialized dependencies. Use this in tests.
func NewIdentityServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *IdentityServer {
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, tokenTTL)

	return &IdentityServer{
		baseServer: baseServer{
			config: cfg,
			db:     db,
			redis:  rdb,
			prom:   middleware.InitMetrics("commons-identity"),
		},
		tokens:        tokens,
		userService:   service.NewUserService(userRepo, tokens),
		friendService: service.NewFriendService(friendRepo, userRepo),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *IdentityServer) SetupMiddleware(app *fiber.App) {
	s.setupMiddleware(app, "identity")
}

// SetupRoutes configures all routes for the identity service
func (s *IdentityServer) SetupRoutes(app *fiber.App) {
	s.setupHealth(app, "identity")

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Gateway: reactions, admin, and content traffic is verified here once
	// and forwarded downstream with trusted identity headers. Downstream
	// services accept X-User-ID only from these forwards.
	app.All("/api/reactions/*", s.Forward(s.config.ReactionsURL, "reactions", false))
	app.All("/api/admin/*", s.Forward(s.config.ReactionsURL, "reactions", true))
	app.All("/api/posts", s.Forward(s.config.ContentURL, "content", false))
	app.All("/api/posts/*", s.Forward(s.config.ContentURL, "content", false))
	app.All("/api/comments/*", s.Forward(s.config.ContentURL, "content", false))

	// Protected routes
	protected := api.Group("", middleware.AuthRequired(s.tokens))

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Get("/search", s.SearchUsers)
	users.Get("/:id", s.GetUserProfile)

	friends := protected.Group("/friends")
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	friends.Delete("/requests/:requestId", s.CancelFriendRequest)

	// Block endpoints used by the reactions orchestrator. They live under
	// /api/internal so the /api/admin gateway forward cannot shadow them;
	// the forwarded admin token is re-verified here.
	internal := app.Group("/api/internal", middleware.AuthRequired(s.tokens), middleware.AdminRequired)
	internal.Post("/users/:id/block", s.BlockUser)
	internal.Post("/users/:id/unblock", s.UnblockUser)
}
