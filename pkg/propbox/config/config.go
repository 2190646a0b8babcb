package config

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Config is the settings document read by cmd/propbox.
type Config struct {
	Log        LogConfig
	Metrics    MetricsConfig
	Tracing    TracingConfig
	Properties []Seed
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// MetricsConfig enables the OTel meter provider.
type MetricsConfig struct {
	Enabled  bool
	Interval time.Duration
}

// TracingConfig enables the OTel tracer provider.
type TracingConfig struct {
	Enabled bool
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Interval: 10 * time.Second},
	}
}

// Parse builds a Config from decoded values, filling gaps from Default,
// and validates it.
//
// Recognised layout (YAML shown):
//
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  enabled: true
//	  interval: 5s
//	tracing:
//	  enabled: true
//	properties:
//	  - key: speed
//	    type: float
//	    value: 12.5
func Parse(v Values) (Config, error) {
	cfg := Default()

	log := v.Sub("log")
	cfg.Log.Level = log.String("level", cfg.Log.Level)
	cfg.Log.Format = log.String("format", cfg.Log.Format)

	metrics := v.Sub("metrics")
	cfg.Metrics.Enabled = metrics.Bool("enabled", cfg.Metrics.Enabled)
	cfg.Metrics.Interval = metrics.Duration("interval", cfg.Metrics.Interval)

	cfg.Tracing.Enabled = v.Sub("tracing").Bool("enabled", cfg.Tracing.Enabled)

	for _, p := range v.List("properties") {
		cfg.Properties = append(cfg.Properties, Seed{
			Key:   p.String("key", ""),
			Type:  p.String("type", ""),
			Value: p.Any("value", nil),
		})
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for errors.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Interval <= 0 {
		return fmt.Errorf("%w: metrics interval must be positive, got %s", ErrInvalidConfig, c.Metrics.Interval)
	}

	seen := make(map[string]bool, len(c.Properties))
	for i, s := range c.Properties {
		if s.Key == "" {
			return fmt.Errorf("%w: properties[%d]: key is required", ErrInvalidConfig, i)
		}
		if seen[s.Key] {
			return fmt.Errorf("%w: properties[%d]: duplicate key %q", ErrInvalidConfig, i, s.Key)
		}
		seen[s.Key] = true
		if _, err := s.store(); err != nil {
			return fmt.Errorf("%w: properties[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// SlogLevel returns the configured level. Call after Validate.
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// NewLogger builds a logger writing to w with the configured level and format.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
}
