package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the resolved configuration of the classhelper CLI.
type Config struct {
	API     APIConfig     `koanf:"api"     validate:"required"`
	CLI     CLIConfig     `koanf:"cli"     validate:"required"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
}

// APIConfig describes how to reach the Class Helper REST API.
type APIConfig struct {
	BaseURL    string          `koanf:"base_url"    env:"CLASSHELPER_API_URL"     validate:"required,api_url"`
	Timeout    time.Duration   `koanf:"timeout"     env:"CLASSHELPER_TIMEOUT"     validate:"min=1ms"`
	RetryCount int             `koanf:"retry_count" env:"CLASSHELPER_RETRY_COUNT" validate:"min=0,max=10"`
	RetryWait  time.Duration   `koanf:"retry_wait"  env:"CLASSHELPER_RETRY_WAIT"  validate:"min=0s"`
	Token      SensitiveString `koanf:"token"       env:"CLASSHELPER_TOKEN"                                 sensitive:"true"`
}

// CLIConfig contains presentation and local storage settings.
type CLIConfig struct {
	DefaultFormat   string `koanf:"default_format"   env:"CLASSHELPER_FORMAT"           validate:"oneof=auto json tui"`
	Interactive     bool   `koanf:"interactive"      env:"CLASSHELPER_INTERACTIVE"`
	NoColor         bool   `koanf:"no_color"         env:"CLASSHELPER_NO_COLOR"`
	CredentialsPath string `koanf:"credentials_path" env:"CLASSHELPER_CREDENTIALS_PATH" validate:"required"`
	PageSize        int    `koanf:"page_size"        env:"CLASSHELPER_PAGE_SIZE"        validate:"min=5,max=200"`
}

// RuntimeConfig controls logging.
type RuntimeConfig struct {
	LogLevel string `koanf:"log_level" env:"CLASSHELPER_LOG_LEVEL" validate:"oneof=debug info warn error disabled"`
	LogJSON  bool   `koanf:"log_json"  env:"CLASSHELPER_LOG_JSON"`
}

// SensitiveString hides its value from fmt and JSON output.
type SensitiveString string

const redacted = "[REDACTED]"

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s SensitiveString) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	// GetSource reports which source provided key in the last Load.
	GetSource(key string) SourceType
}

// Source is one layer of configuration.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads configuration from defaults and the environment.
func Load() (*Config, error) {
	return NewService().Load(context.Background())
}

// Default returns a Config with default values. The API base URL has no
// default and must come from a file, the environment or a flag.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Timeout:    30 * time.Second,
			RetryCount: 3,
			RetryWait:  500 * time.Millisecond,
		},
		CLI: CLIConfig{
			DefaultFormat:   "auto",
			CredentialsPath: DefaultCredentialsPath(),
			PageSize:        20,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}

// DefaultCredentialsPath is <user config dir>/classhelper/credentials.yaml.
func DefaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".classhelper", "credentials.yaml")
	}
	return filepath.Join(dir, "classhelper", "credentials.yaml")
}
