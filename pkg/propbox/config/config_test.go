package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/propbox/pkg/propbox/config"
	"github.com/randalmurphal/propbox/pkg/propbox/kinds"
	"github.com/randalmurphal/propbox/pkg/propbox/propset"
)

const yamlDoc = `
log:
  level: debug
  format: json
metrics:
  enabled: true
  interval: 5s
tracing:
  enabled: true
properties:
  - key: speed
    type: float
    value: 12.5
  - key: count
    type: int
    value: 3
  - key: labels
    type: strings
    value: [a, b]
`

const jsonDoc = `{
  "log": {"level": "warn"},
  "properties": [
    {"key": "name", "type": "string", "value": "propbox"},
    {"key": "count", "type": "int", "value": 7}
  ]
}`

const tomlDoc = `
[log]
level = "error"
format = "text"

[tracing]
enabled = true

[[properties]]
key = "timeout"
type = "duration"
value = "1m30s"

[[properties]]
key = "enabled"
type = "bool"
value = true

[[properties]]
key = "count"
type = "int"
value = 42
`

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Metrics.Interval)
	assert.Empty(t, cfg.Properties)
}

func TestParse_YAML(t *testing.T) {
	v, err := config.FromYAML([]byte(yamlDoc))
	require.NoError(t, err)

	cfg, err := config.Parse(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Metrics.Interval)
	assert.True(t, cfg.Tracing.Enabled)
	require.Len(t, cfg.Properties, 3)
	assert.Equal(t, "speed", cfg.Properties[0].Key)
	assert.Equal(t, "float", cfg.Properties[0].Type)
}

func TestParse_JSON(t *testing.T) {
	v, err := config.FromJSON([]byte(jsonDoc))
	require.NoError(t, err)

	cfg, err := config.Parse(v)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "missing keys fall back to defaults")

	s := propset.New[string]()
	require.NoError(t, cfg.Apply(s))

	// JSON numbers decode as float64; whole values still seed an int.
	count, err := propset.Get(s, "count", kinds.Int)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestParse_TOML(t *testing.T) {
	v, err := config.FromTOML([]byte(tomlDoc))
	require.NoError(t, err)

	cfg, err := config.Parse(v)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.Tracing.Enabled)

	s := propset.New[string]()
	require.NoError(t, cfg.Apply(s))

	timeout, err := propset.Get(s, "timeout", kinds.Duration)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, timeout)

	enabled, err := propset.Get(s, "enabled", kinds.Bool)
	require.NoError(t, err)
	assert.True(t, enabled)

	// TOML integers decode as int64.
	count, err := propset.Get(s, "count", kinds.Int)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestApply_YAML(t *testing.T) {
	v, err := config.FromYAML([]byte(yamlDoc))
	require.NoError(t, err)
	cfg, err := config.Parse(v)
	require.NoError(t, err)

	s := propset.New[string]()
	require.NoError(t, cfg.Apply(s))
	assert.Equal(t, 3, s.Len())

	speed, err := propset.Get(s, "speed", kinds.Float)
	require.NoError(t, err)
	assert.Equal(t, 12.5, speed)

	labels, err := propset.Get(s, "labels", kinds.Strings)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, labels)

	_, err = propset.Get(s, "speed", kinds.Int)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }, "log level"},
		{"bad format", func(c *config.Config) { c.Log.Format = "xml" }, "log format"},
		{"zero interval", func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.Interval = 0
		}, "interval"},
		{"missing key", func(c *config.Config) {
			c.Properties = []config.Seed{{Type: "int", Value: 1}}
		}, "key is required"},
		{"duplicate key", func(c *config.Config) {
			c.Properties = []config.Seed{
				{Key: "a", Type: "int", Value: 1},
				{Key: "a", Type: "string", Value: "x"},
			}
		}, "duplicate key"},
		{"unknown type", func(c *config.Config) {
			c.Properties = []config.Seed{{Key: "a", Type: "complex", Value: 1}}
		}, "unknown type"},
		{"fractional int", func(c *config.Config) {
			c.Properties = []config.Seed{{Key: "a", Type: "int", Value: 3.5}}
		}, "not a valid int"},
		{"non-string element", func(c *config.Config) {
			c.Properties = []config.Seed{{Key: "a", Type: "strings", Value: []any{"x", 1}}}
		}, "not a valid strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log = config.LogConfig{Level: "debug", Format: "json"}

		var buf bytes.Buffer
		cfg.NewLogger(&buf).Debug("hello", "k", 1)
		assert.True(t, strings.HasPrefix(buf.String(), "{"))
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("text filters below level", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Level = "warn"

		var buf bytes.Buffer
		logger := cfg.NewLogger(&buf)
		logger.Info("dropped")
		logger.Warn("kept")
		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "msg=kept")
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file    string
		content string
		level   string
	}{
		{"c.yaml", yamlDoc, "debug"},
		{"c.YML", yamlDoc, "debug"},
		{"c.json", jsonDoc, "warn"},
		{"c.toml", tomlDoc, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.level, cfg.Log.Level)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "c.ini")
		require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o600))
		_, err := config.Load(path)
		assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := config.FromYAML([]byte("log: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse yaml")
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := config.FromTOML([]byte("[log\nlevel = 1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse toml")
	})

	t.Run("invalid seed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"properties":[{"key":"a","type":"bool","value":"yes"}]}`), 0o600))
		_, err := config.Load(path)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}
