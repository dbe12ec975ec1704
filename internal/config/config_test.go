package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Development with defaults", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
		}, true},
		{"Production with short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
			c.DBPassword = "s3cure-db-password"
			c.GoogleAPIKey = "key"
		}, true},
		{"Production with weak DB password", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "a-very-long-production-grade-secret!"
			c.DBPassword = "password"
			c.GoogleAPIKey = "key"
		}, true},
		{"Production without API key", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "a-very-long-production-grade-secret!"
			c.DBPassword = "s3cure-db-password"
		}, true},
		{"Production fully configured", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "a-very-long-production-grade-secret!"
			c.DBPassword = "s3cure-db-password"
			c.GoogleAPIKey = "key"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:      "3000",
				JWTSecret: DefaultJWTSecret,
				Env:       "development",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}
