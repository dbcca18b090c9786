package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:     "secure-secret-at-least-32-chars-long",
		IdentityPort:  "8081",
		ContentPort:   "8082",
		ReactionsPort: "8083",
		IdentityURL:   "http://localhost:8081",
		ContentURL:    "http://localhost:8082",
		ReactionsURL:  "http://localhost:8083",
		DBPassword:    "secure-password",
		DBSSLMode:     "require",
		Env:           "test",
		PeerTimeout:   5 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid config", func(_ *Config) {}, false},
		{"missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"missing identity port", func(c *Config) { c.IdentityPort = "" }, true},
		{"missing content port", func(c *Config) { c.ContentPort = "" }, true},
		{"missing reactions port", func(c *Config) { c.ReactionsPort = "" }, true},
		{"missing peer URL", func(c *Config) { c.ContentURL = "" }, true},
		{"zero peer timeout", func(c *Config) { c.PeerTimeout = 0 }, true},
		{"production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"production with short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production with weak db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"production with strong settings", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ServiceDBName(t *testing.T) {
	c := validConfig()
	c.DBName = "commons"
	assert.Equal(t, "commons_reactions", c.ServiceDBName("reactions"))
	assert.Equal(t, "commons_identity", c.ServiceDBName("identity"))
}
