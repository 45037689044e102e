// Package client is a small line-oriented client for playing Old Maid from a
// terminal.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

var ErrClosed = errors.New("client closed")

// Message is any frame the server sends. Only the fields for Type are set;
// error frames carry Error and no Type.
type Message struct {
	Type     string          `json:"type"`
	Error    string          `json:"error"`
	GameID   string          `json:"gameId"`
	PlayerID string          `json:"playerId"`
	Joined   bool            `json:"joined"`
	Hand     []deck.Card     `json:"hand"`
	State    *protocol.State `json:"state"`
}

// Client is a WebSocket connection to a game server
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	messages  chan Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Dial connects to serverURL. http(s) URLs are converted to ws(s) and an empty
// path becomes /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	logger = logger.WithPrefix("client")
	logger.Debug("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:     conn,
		send:     make(chan []byte, 64),
		messages: make(chan Message, 64),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	go c.readPump()
	go c.writePump()
	return c, nil
}

// Messages delivers server frames in order. It is closed when the connection
// ends.
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// Send queues a request for the server
func (c *Client) Send(req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	}
}

// Close ends the connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readPump() {
	defer close(c.messages)
	defer func() { _ = c.Close() }()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && c.ctx.Err() == nil {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("Ignoring malformed frame", "error", err)
			continue
		}
		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.messages <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// Request is an outbound frame. Only the fields its Type uses are sent.
type Request struct {
	Type         string `json:"type"`
	GameID       string `json:"gameId,omitempty"`
	PlayerID     string `json:"playerId,omitempty"`
	TargetID     string `json:"targetId,omitempty"`
	Name         string `json:"name,omitempty"`
	Reverse      bool   `json:"reverse,omitempty"`
	CustomGameID string `json:"customGameId,omitempty"`
	CreatorName  string `json:"creatorName,omitempty"`
	CardIndex    *int   `json:"cardIndex,omitempty"`
}

func (r Request) String() string {
	parts := []string{r.Type}
	if r.GameID != "" {
		parts = append(parts, "game="+r.GameID)
	}
	if r.TargetID != "" {
		parts = append(parts, "target="+r.TargetID)
	}
	if r.CardIndex != nil {
		parts = append(parts, fmt.Sprintf("index=%d", *r.CardIndex))
	}
	return strings.Join(parts, " ")
}
