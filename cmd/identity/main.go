// Command identity is the entry point for the Commons identity service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"commons/internal/bootstrap"
	"commons/internal/config"
	"commons/internal/models"
	"commons/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rt, err := bootstrap.InitRuntime(cfg, "identity",
		&models.User{}, &models.FriendRequest{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv := server.NewIdentityServerWithDeps(cfg, rt.DB, rt.Redis)

	app := fiber.New(fiber.Config{
		AppName:   "Commons Identity",
		BodyLimit: 1 * 1024 * 1024,
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down identity service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := rt.TracingShutdown(); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	log.Printf("Identity service starting on port %s...", cfg.IdentityPort)
	log.Fatal(app.Listen(":" + cfg.IdentityPort))
}
