package server

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	recovermw "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commons/internal/config"
	"commons/internal/middleware"
)

// baseServer carries the dependencies every service server shares.
type baseServer struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	prom   *fiberprometheus.FiberPrometheus
}

// setupMiddleware configures the common middleware chain for one service.
func (s *baseServer) setupMiddleware(app *fiber.App, serviceName string) {
	// Panic recovery
	app.Use(recovermw.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.prom != nil {
		app.Use(middleware.MetricsMiddleware(s.prom))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger(serviceName))

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on errors.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// setupHealth registers health probes and the metrics endpoint.
func (s *baseServer) setupHealth(app *fiber.App, serviceName string) {
	app.Get("/health/live", livenessCheck)
	app.Get("/health/ready", readinessCheck(serviceName, s.db, s.redis))
	app.Get("/health", readinessCheck(serviceName, s.db, s.redis))

	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}
}
