package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one WebSocket client. The read pump feeds frames to the hub;
// the write pump drains the send buffer.
type Connection struct {
	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
	clock     quartz.Clock
	logger    *log.Logger
	readLimit int64
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps an upgraded socket.
func NewConnection(ctx context.Context, conn *websocket.Conn, hub *Hub, settings ConnectionSettings, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(ctx)

	return &Connection{
		conn:      conn,
		send:      make(chan []byte, settings.SendBuffer),
		hub:       hub,
		clock:     clock,
		logger:    logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		readLimit: settings.MaxMessageSize,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close stops both pumps. The write pump sends a close frame on its way out.
func (c *Connection) Close() {
	c.closeOnce.Do(c.cancel)
}

// Send queues a frame without blocking. A client that cannot keep up is
// disconnected.
func (c *Connection) Send(frame []byte) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		c.Close()
		return ErrConnectionClosed
	}
}

// readPump hands every text frame to the hub in arrival order.
func (c *Connection) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(c.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := c.hub.Submit(c.ctx, c, data); err != nil {
			return
		}
	}
}

// writePump owns every write to the socket.
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "conn", "ping")
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
