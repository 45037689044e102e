package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oldmaid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.Equal(t, "0.0.0.0:4000", config.Address())
	assert.Zero(t, config.Rooms.IdleTimeout())
	require.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address    = "127.0.0.1"
  port       = 9000
  log_level  = "debug"
  log_format = "json"
}

rooms {
  idle_timeout_seconds  = 600
  reap_interval_seconds = 30
}

connection {
  send_buffer      = 64
  max_message_size = 4096
  allowed_origins  = ["https://oldmaid.example"]
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "127.0.0.1:9000", config.Address())
	assert.Equal(t, "debug", config.Server.LogLevel)
	assert.Equal(t, "json", config.Server.LogFormat)
	assert.Equal(t, 10*time.Minute, config.Rooms.IdleTimeout())
	assert.Equal(t, 30*time.Second, config.Rooms.ReapInterval())
	assert.Equal(t, 64, config.Connection.SendBuffer)
	assert.Equal(t, int64(4096), config.Connection.MaxMessageSize)
	assert.Equal(t, []string{"https://oldmaid.example"}, config.Connection.AllowedOrigins)
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `
server {
  port = 5000
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, config.Server.Address)
	assert.Equal(t, 5000, config.Server.Port)
	assert.Equal(t, DefaultLogLevel, config.Server.LogLevel)
	assert.Equal(t, DefaultReapInterval, config.Rooms.ReapIntervalSeconds)
	assert.Equal(t, DefaultSendBuffer, config.Connection.SendBuffer)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `server {`))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = LoadConfig(writeConfig(t, `server { port = "lots" }`))
	assert.ErrorContains(t, err, "failed to decode HCL")

	_, err = LoadConfig(writeConfig(t, `tables { }`))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid port: 0"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid port: 70000"},
		{"log level", func(c *Config) { c.Server.LogLevel = "loud" }, "invalid log level: loud"},
		{"log format", func(c *Config) { c.Server.LogFormat = "xml" }, "invalid log format: xml"},
		{"negative timeout", func(c *Config) { c.Rooms.IdleTimeoutSeconds = -1 }, "idle timeout must not be negative"},
		{"reap interval", func(c *Config) { c.Rooms.ReapIntervalSeconds = 0 }, "reap interval must be positive"},
		{"send buffer", func(c *Config) { c.Connection.SendBuffer = 0 }, "send buffer must be positive"},
		{"message size", func(c *Config) { c.Connection.MaxMessageSize = -5 }, "max message size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.EqualError(t, config.Validate(), tt.want)
		})
	}
}

func TestConfigApplyEnv(t *testing.T) {
	env := func(values map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		}
	}

	config := DefaultConfig()
	require.NoError(t, config.ApplyEnv(env(nil)))
	assert.Equal(t, DefaultPort, config.Server.Port)

	require.NoError(t, config.ApplyEnv(env(map[string]string{"PORT": "8123"})))
	assert.Equal(t, 8123, config.Server.Port)

	err := config.ApplyEnv(env(map[string]string{"PORT": "eighty"}))
	assert.ErrorContains(t, err, `invalid PORT "eighty"`)
	assert.Equal(t, 8123, config.Server.Port)
}
