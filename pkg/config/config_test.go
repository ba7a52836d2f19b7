package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.API.BaseURL = "http://localhost:8080"
	return cfg
}

func TestConfig_Default(t *testing.T) {
	t.Run("Should return default values", func(t *testing.T) {
		cfg := Default()
		require.NotNil(t, cfg)
		assert.Empty(t, cfg.API.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.API.Timeout)
		assert.Equal(t, 3, cfg.API.RetryCount)
		assert.Equal(t, 500*time.Millisecond, cfg.API.RetryWait)
		assert.Equal(t, "auto", cfg.CLI.DefaultFormat)
		assert.Equal(t, 20, cfg.CLI.PageSize)
		assert.Contains(t, cfg.CLI.CredentialsPath, "credentials.yaml")
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
	})
}

func TestConfig_Validation(t *testing.T) {
	svc := NewService()

	t.Run("Should accept a complete configuration", func(t *testing.T) {
		assert.NoError(t, svc.Validate(validConfig()))
	})

	t.Run("Should reject nil", func(t *testing.T) {
		assert.Error(t, svc.Validate(nil))
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }},
		{"base url without scheme", func(c *Config) { c.API.BaseURL = "localhost:8080" }},
		{"base url with ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"too many retries", func(c *Config) { c.API.RetryCount = 11 }},
		{"retry wait longer than timeout", func(c *Config) { c.API.RetryWait = time.Minute }},
		{"unknown format", func(c *Config) { c.CLI.DefaultFormat = "xml" }},
		{"tiny page size", func(c *Config) { c.CLI.PageSize = 1 }},
		{"unknown log level", func(c *Config) { c.Runtime.LogLevel = "trace" }},
		{"missing credentials path", func(c *Config) { c.CLI.CredentialsPath = "" }},
	}
	for _, tt := range tests {
		t.Run("Should reject "+tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, svc.Validate(cfg))
		})
	}
}

func TestEnvMappings(t *testing.T) {
	t.Run("Should expose every env binding", func(t *testing.T) {
		m := GenerateEnvToConfigMap()
		assert.Equal(t, "api.base_url", m["CLASSHELPER_API_URL"])
		assert.Equal(t, "api.token", m["CLASSHELPER_TOKEN"])
		assert.Equal(t, "runtime.log_level", m["CLASSHELPER_LOG_LEVEL"])
		assert.Equal(t, "CLASSHELPER_PAGE_SIZE", GetEnvVarForConfigPath("cli.page_size"))
		assert.Empty(t, GetEnvVarForConfigPath("cli.unknown"))
	})

	t.Run("Should flag secrets", func(t *testing.T) {
		assert.True(t, IsSensitiveConfigPath("api.token"))
		assert.False(t, IsSensitiveConfigPath("api.base_url"))
		assert.False(t, IsSensitiveConfigPath("nope"))
	})
}

func TestFlatten(t *testing.T) {
	t.Run("Should flatten and redact", func(t *testing.T) {
		cfg := validConfig()
		cfg.API.Token = "super-secret"
		flat := Flatten(cfg)
		assert.Equal(t, "http://localhost:8080", flat["api.base_url"])
		assert.Equal(t, "[REDACTED]", flat["api.token"])
		assert.Equal(t, "30s", flat["api.timeout"])
		assert.Equal(t, 20, flat["cli.page_size"])
	})
}
