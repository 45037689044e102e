package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/oldmaid/internal/protocol"
)

const help = `Commands:
  create [id] [reverse]   open a room and sit down
  join <game>             join a room
  start                   deal the cards
  discard                 throw away pairs in your hand
  pick <index>            take a card from the next player
  new                     reset the room for another round
  leave                   leave the room
  quit                    disconnect`

// Config holds the options for an interactive session
type Config struct {
	Server string
	Name   string
	// Game joins an existing room; when empty a room is created
	Game     string
	CustomID string
	Reverse  bool
	Color    bool
}

// Run plays an interactive session, reading commands from in and writing to
// out until quit, EOF or ctx is cancelled.
func Run(ctx context.Context, config Config, in io.Reader, out io.Writer, logger *log.Logger) error {
	if strings.TrimSpace(config.Name) == "" {
		return errors.New("a player name is required")
	}

	c, err := Dial(ctx, config.Server, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	session := &Session{Name: config.Name}
	render := NewRenderer(out, config.Color)

	opening := Request{Type: protocol.TypeCreateGame, CustomGameID: config.CustomID, CreatorName: config.Name, Reverse: config.Reverse}
	if config.Game != "" {
		opening = Request{Type: protocol.TypeJoinGame, GameID: config.Game, Name: config.Name}
	}
	if err := c.Send(opening); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, render.Info("Type help for commands"))

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-c.Messages():
			if !ok {
				return errors.New("connection closed by server")
			}
			session.Apply(msg)
			if text := render.Message(msg, session); text != "" {
				fmt.Fprintln(out, text)
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			switch strings.ToLower(line) {
			case "":
				continue
			case "help", "?":
				fmt.Fprintln(out, help)
				continue
			case "quit", "exit":
				return nil
			}

			req, err := session.Command(line)
			if err != nil {
				fmt.Fprintln(out, render.Error(err.Error()))
				continue
			}
			logger.Debug("Sending request", "request", req.String())
			if err := c.Send(req); err != nil {
				return err
			}
		}
	}
}
