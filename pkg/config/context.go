package config

import "context"

// ContextKey is an alias used for storing values in context
type ContextKey string

const (
	ConfigCtxKey   ContextKey = "config"
	MetadataCtxKey ContextKey = "config_sources"
)

// ContextWithConfig stores the resolved configuration and the service that
// produced it.
func ContextWithConfig(ctx context.Context, cfg *Config, service Service) context.Context {
	ctx = context.WithValue(ctx, ConfigCtxKey, cfg)
	if service != nil {
		ctx = context.WithValue(ctx, MetadataCtxKey, service)
	}
	return ctx
}

// FromContext returns the configuration attached to ctx, or nil.
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return nil
	}
	cfg, _ := ctx.Value(ConfigCtxKey).(*Config)
	return cfg
}

// ServiceFromContext returns the service that loaded the attached
// configuration, for source lookups.
func ServiceFromContext(ctx context.Context) Service {
	if ctx == nil {
		return nil
	}
	svc, _ := ctx.Value(MetadataCtxKey).(Service)
	return svc
}
