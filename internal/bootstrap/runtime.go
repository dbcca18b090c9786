// Package bootstrap wires runtime dependencies for the service binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"commons/internal/cache"
	"commons/internal/config"
	"commons/internal/database"
	"commons/internal/models"
	"commons/internal/observability"
	"commons/internal/seed"
)

// Runtime holds the initialized dependencies for one service binary.
type Runtime struct {
	DB              *gorm.DB
	Redis           *redis.Client
	TracingShutdown func() error
}

// InitRuntime connects the service's database and Redis, initializes tracing,
// and runs development-only bootstrapping (root admin, demo seed).
func InitRuntime(cfg *config.Config, service string, migrations ...interface{}) (*Runtime, error) {
	db, err := database.Connect(cfg, service, migrations...)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "commons-" + service,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	if strings.EqualFold(cfg.Env, "development") {
		if err := devBootstrap(cfg, db, service); err != nil {
			return nil, err
		}
	}

	return &Runtime{
		DB:    db,
		Redis: cache.GetClient(),
		TracingShutdown: func() error {
			return shutdown(context.Background())
		},
	}, nil
}

func devBootstrap(cfg *config.Config, db *gorm.DB, service string) error {
	if service == "identity" {
		if err := ensureDevRootAdmin(cfg, db); err != nil {
			return fmt.Errorf("failed to bootstrap development root admin: %w", err)
		}
	}

	if !cfg.SeedDemoData {
		return nil
	}
	switch service {
	case "identity":
		return seed.Identity(db)
	case "content":
		return seed.Content(db)
	case "reactions":
		return seed.Reactions(db)
	}
	return nil
}

// ensureDevRootAdmin guarantees user id 1 exists and is an admin so the
// orchestrated admin flows can be exercised locally. Requires
// DEV_ADMIN_PASSWORD to be set; otherwise it is skipped.
func ensureDevRootAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg.DevAdminPassword == "" {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "root"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:       1,
				Username: username,
				Email:    username + "@commons.local",
				Password: string(hash),
				IsAdmin:  true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", 1).
				Update("is_admin", true).Error; err != nil {
				return err
			}
		}

		// Keep the users id sequence ahead of the explicit insert.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}
		return nil
	})
}
