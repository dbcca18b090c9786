// Command reactions is the entry point for the Commons reactions service.
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
	"commons/internal/client"
	"commons/internal/config"
	"commons/internal/models"
	"commons/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rt, err := bootstrap.InitRuntime(cfg, "reactions", &models.Reaction{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	contentClient := client.NewContentClient(cfg.ContentURL, cfg.PeerTimeout)
	identityClient := client.NewIdentityClient(cfg.IdentityURL, cfg.PeerTimeout)
	srv := server.NewReactionsServerWithDeps(cfg, rt.DB, rt.Redis, contentClient, identityClient)

	app := fiber.New(fiber.Config{
		AppName:   "Commons Reactions",
		BodyLimit: 1 * 1024 * 1024,
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down reactions service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := rt.TracingShutdown(); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	log.Printf("Reactions service starting on port %s...", cfg.ReactionsPort)
	log.Fatal(app.Listen(":" + cfg.ReactionsPort))
}
