package main

import (
	"os"
	"strings"

	"github.com/lox/oldmaid/internal/client"
)

type ClientCmd struct {
	Server  string `kong:"default='ws://localhost:4000/ws',help='WebSocket server URL'"`
	Name    string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
	Game    string `kong:"default='',help='Game to join; a new one is created when empty'"`
	ID      string `kong:"name='id',default='',help='Custom id for a new game'"`
	Reverse bool   `kong:"help='Create the game in reverse mode'"`
	NoColor bool   `kong:"help='Disable colored output'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	level := "warn"
	if c.Debug {
		level = "debug"
	}
	logger, err := newLogger(os.Stderr, level, "text")
	if err != nil {
		return err
	}

	config := client.Config{
		Server:   strings.TrimSpace(c.Server),
		Name:     displayName(c.Name),
		Game:     strings.TrimSpace(c.Game),
		CustomID: strings.TrimSpace(c.ID),
		Reverse:  c.Reverse,
		Color:    !c.NoColor,
	}

	ctx := setupSignalHandler(logger)
	return client.Run(ctx, config, os.Stdin, os.Stdout, logger)
}

func displayName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" {
		return user
	}
	return "Player"
}
