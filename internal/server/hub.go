package server

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

var ErrHubStopped = errors.New("hub stopped")

type inbound struct {
	peer  Peer
	frame []byte
}

// Hub is the single worker that owns the registry and handler. Frames are
// handled one at a time, broadcasts included, in the order they arrive.
type Hub struct {
	handler  *Handler
	registry *Registry
	inbound  chan inbound
	leave    chan Peer
	queries  chan func()
	done     chan struct{}
	rooms    RoomSettings
	clock    quartz.Clock
	logger   *log.Logger
}

// NewHub creates a hub around registry.
func NewHub(registry *Registry, rooms RoomSettings, clock quartz.Clock, logger *log.Logger) *Hub {
	return &Hub{
		handler:  NewHandler(registry, logger),
		registry: registry,
		inbound:  make(chan inbound),
		leave:    make(chan Peer),
		queries:  make(chan func()),
		done:     make(chan struct{}),
		rooms:    rooms,
		clock:    clock,
		logger:   logger.WithPrefix("hub"),
	}
}

// Run processes work until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	var reap <-chan time.Time
	if h.rooms.IdleTimeout() > 0 {
		ticker := h.clock.NewTicker(h.rooms.ReapInterval(), "hub", "reap")
		defer ticker.Stop()
		reap = ticker.C
		h.logger.Info("Idle room reaper enabled", "timeout", h.rooms.IdleTimeout(), "interval", h.rooms.ReapInterval())
	}

	for {
		select {
		case in := <-h.inbound:
			h.handler.Handle(in.peer, in.frame)

		case peer := <-h.leave:
			h.handler.Disconnect(peer)

		case query := <-h.queries:
			query()

		case <-reap:
			if n := h.handler.Reap(h.rooms.IdleTimeout()); n > 0 {
				h.logger.Info("Reaped idle games", "count", n, "remaining", h.registry.Len())
			}

		case <-ctx.Done():
			h.logger.Debug("Hub stopping")
			return nil
		}
	}
}

// Submit queues a frame from peer, blocking until the hub takes it.
func (h *Hub) Submit(ctx context.Context, peer Peer, frame []byte) error {
	select {
	case h.inbound <- inbound{peer: peer, frame: frame}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// Disconnect releases the player bindings held by peer.
func (h *Hub) Disconnect(peer Peer) {
	select {
	case h.leave <- peer:
	case <-h.done:
	}
}

// Games lists the live rooms from the hub goroutine.
func (h *Hub) Games(ctx context.Context) ([]GameSummary, error) {
	reply := make(chan []GameSummary, 1)
	query := func() { reply <- h.registry.List() }

	select {
	case h.queries <- query:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrHubStopped
	}
	return <-reply, nil
}
