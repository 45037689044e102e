package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/oldmaid/internal/server"
)

// ServeCmd runs the game server. Flags override the config file and the PORT
// environment variable.
type ServeCmd struct {
	Config      string        `short:"c" default:"oldmaid.hcl" help:"Path to HCL configuration file"`
	Addr        string        `short:"a" help:"Address to bind to (overrides config)"`
	Port        int           `short:"p" help:"Port to listen on (overrides config and PORT)"`
	LogLevel    string        `short:"l" help:"Log level (overrides config)"`
	LogFormat   string        `help:"Log format: text, json or logfmt (overrides config)"`
	IdleTimeout time.Duration `help:"Delete rooms idle for this long (overrides config)"`
	Seed        *int64        `help:"Deterministic RNG seed for shuffles (optional)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return err
	}

	var opts []server.Option
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		opts = append(opts, server.WithRegistryOptions(server.WithSeed(*c.Seed)))
	}

	logger.Info("Starting Old Maid server",
		"addr", cfg.Address(),
		"idle_timeout", cfg.Rooms.IdleTimeout(),
		"version", version)

	s := server.NewServer(cfg, logger, opts...)
	ctx := setupSignalHandler(logger)
	return s.Run(ctx)
}

// apply copies set flags over cfg
func (c *ServeCmd) apply(cfg *server.Config) {
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Server.LogFormat = c.LogFormat
	}
	if c.IdleTimeout > 0 {
		cfg.Rooms.IdleTimeoutSeconds = int(c.IdleTimeout / time.Second)
	}
}
