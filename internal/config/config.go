// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds configuration for all three Commons services. Each binary
// loads the same file and picks its own port; the peer URLs are what the
// services use to reach each other.
type Config struct {
	JWTSecret string `mapstructure:"JWT_SECRET"`

	IdentityPort  string `mapstructure:"IDENTITY_PORT"`
	ContentPort   string `mapstructure:"CONTENT_PORT"`
	ReactionsPort string `mapstructure:"REACTIONS_PORT"`

	IdentityURL  string `mapstructure:"IDENTITY_URL"`
	ContentURL   string `mapstructure:"CONTENT_URL"`
	ReactionsURL string `mapstructure:"REACTIONS_URL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// PeerTimeout bounds every outbound call to another Commons service.
	PeerTimeout time.Duration `mapstructure:"PEER_TIMEOUT"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER"`

	// Development-only bootstrap of a root admin account on the identity
	// service. Ignored outside development.
	DevAdminUsername string `mapstructure:"DEV_ADMIN_USERNAME"`
	DevAdminPassword string `mapstructure:"DEV_ADMIN_PASSWORD"`

	// SeedDemoData populates the development databases with fake data.
	SeedDemoData bool `mapstructure:"SEED_DEMO_DATA"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			log.Printf("No profile-specific config 'config.%s.yml' found, using base config and environment", env)
		}
	}

	viper.SetDefault("IDENTITY_PORT", "8081")
	viper.SetDefault("CONTENT_PORT", "8082")
	viper.SetDefault("REACTIONS_PORT", "8083")
	viper.SetDefault("IDENTITY_URL", "http://localhost:8081")
	viper.SetDefault("CONTENT_URL", "http://localhost:8082")
	viper.SetDefault("REACTIONS_URL", "http://localhost:8083")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "commons")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PEER_TIMEOUT", "5s")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER", 1.0)
	viper.SetDefault("DEV_ADMIN_USERNAME", "root")
	viper.SetDefault("DEV_ADMIN_PASSWORD", "")
	viper.SetDefault("SEED_DEMO_DATA", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.IdentityPort == "" || c.ContentPort == "" || c.ReactionsPort == "" {
		return errors.New("IDENTITY_PORT, CONTENT_PORT and REACTIONS_PORT are required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IdentityURL == "" || c.ContentURL == "" || c.ReactionsURL == "" {
		return errors.New("peer service URLs are required")
	}
	if c.PeerTimeout <= 0 {
		return errors.New("PEER_TIMEOUT must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// ServiceDBName returns the database name for one of the three services.
// Each service owns its own schema; there is no shared database.
func (c *Config) ServiceDBName(service string) string {
	return c.DBName + "_" + service
}
