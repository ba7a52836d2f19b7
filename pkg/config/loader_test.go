package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
	err        error
}

func (m *mockSource) Load() (map[string]any, error) { return m.data, m.err }
func (m *mockSource) Type() SourceType              { return m.sourceType }

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classhelper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should fail without a base url", func(t *testing.T) {
		_, err := NewService().Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BaseURL")
	})

	t.Run("Should layer yaml over defaults", func(t *testing.T) {
		path := writeYAML(t, "api:\n  base_url: https://api.classhelper.test\n  timeout: 5s\ncli:\n  page_size: 50\n")
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewYAMLProvider(path))
		require.NoError(t, err)
		assert.Equal(t, "https://api.classhelper.test", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, 50, cfg.CLI.PageSize)
		assert.Equal(t, 3, cfg.API.RetryCount)
		assert.Equal(t, SourceYAML, svc.GetSource("api.base_url"))
		assert.Equal(t, SourceDefault, svc.GetSource("api.retry_count"))
	})

	t.Run("Should let env override yaml", func(t *testing.T) {
		t.Setenv("CLASSHELPER_API_URL", "http://env.example.com")
		t.Setenv("CLASSHELPER_TOKEN", "env-token")
		path := writeYAML(t, "api:\n  base_url: http://yaml.example.com\n")
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewYAMLProvider(path))
		require.NoError(t, err)
		assert.Equal(t, "http://env.example.com", cfg.API.BaseURL)
		assert.Equal(t, "env-token", cfg.API.Token.Value())
		assert.Equal(t, SourceEnv, svc.GetSource("api.base_url"))
	})

	t.Run("Should let flags override env", func(t *testing.T) {
		t.Setenv("CLASSHELPER_API_URL", "http://env.example.com")
		t.Setenv("CLASSHELPER_LOG_LEVEL", "warn")
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewCLIProvider(map[string]any{
			"api-url":   "http://flag.example.com",
			"log-level": "debug",
			"unrelated": "ignored",
		}))
		require.NoError(t, err)
		assert.Equal(t, "http://flag.example.com", cfg.API.BaseURL)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.Equal(t, SourceCLI, svc.GetSource("runtime.log_level"))
	})

	t.Run("Should ignore unrelated environment variables", func(t *testing.T) {
		t.Setenv("CLASSHELPER_API_URL", "http://env.example.com")
		t.Setenv("CLASSHELPER_UNKNOWN_THING", "x")
		_, err := NewService().Load(context.Background())
		require.NoError(t, err)
	})

	t.Run("Should surface source errors", func(t *testing.T) {
		_, err := NewService().Load(context.Background(), &mockSource{sourceType: SourceYAML, err: assert.AnError})
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Should decode durations given as strings", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(context.Background(), &mockSource{
			sourceType: SourceYAML,
			data: map[string]any{"api": map[string]any{
				"base_url":   "http://localhost:1",
				"retry_wait": "250ms",
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, cfg.API.RetryWait)
	})
}

func TestContext(t *testing.T) {
	t.Run("Should round-trip config and service", func(t *testing.T) {
		svc := NewService()
		cfg := validConfig()
		ctx := ContextWithConfig(context.Background(), cfg, svc)
		assert.Same(t, cfg, FromContext(ctx))
		assert.Equal(t, svc, ServiceFromContext(ctx))
	})

	t.Run("Should return nil when absent", func(t *testing.T) {
		assert.Nil(t, FromContext(context.Background()))
		assert.Nil(t, ServiceFromContext(context.Background()))
	})
}
