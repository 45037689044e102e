package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/oldmaid/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("Game over", "game", "abc")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"game":"abc"`)

	buf.Reset()
	logger, err = newLogger(&buf, "debug", "logfmt")
	require.NoError(t, err)
	logger.Debug("Player joined", "player", "Alice")
	assert.Contains(t, buf.String(), "player=Alice")

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.EqualError(t, err, `invalid log format "xml"`)
}

func TestServeCmdOverrides(t *testing.T) {
	cfg := server.DefaultConfig()
	(&ServeCmd{}).apply(cfg)
	assert.Equal(t, server.DefaultConfig(), cfg, "unset flags change nothing")

	cmd := &ServeCmd{
		Addr:        "127.0.0.1",
		Port:        5050,
		LogLevel:    "debug",
		LogFormat:   "json",
		IdleTimeout: 15 * time.Minute,
	}
	cmd.apply(cfg)
	assert.Equal(t, "127.0.0.1:5050", cfg.Address())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, 900, cfg.Rooms.IdleTimeoutSeconds)
	require.NoError(t, cfg.Validate())
}

func TestDisplayName(t *testing.T) {
	t.Setenv("USER", "lox")
	assert.Equal(t, "Alice", displayName("  Alice "))
	assert.Equal(t, "lox", displayName(""))

	t.Setenv("USER", "")
	assert.Equal(t, "Player", displayName(" "))
}
