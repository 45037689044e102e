package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	banner          = "Old Maid Game Server Running"
	shutdownTimeout = 5 * time.Second
)

// Server represents the WebSocket server
type Server struct {
	config   *Config
	upgrader websocket.Upgrader
	registry *Registry
	hub      *Hub
	clock    quartz.Clock
	logger   *log.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// Option customises a Server.
type Option func(*serverOptions)

type serverOptions struct {
	clock    quartz.Clock
	registry []RegistryOption
}

// WithClock replaces the real clock, for tests.
func WithClock(clock quartz.Clock) Option {
	return func(o *serverOptions) { o.clock = clock }
}

// WithRegistryOptions passes options through to the registry.
func WithRegistryOptions(opts ...RegistryOption) Option {
	return func(o *serverOptions) { o.registry = append(o.registry, opts...) }
}

// NewServer creates a new WebSocket server
func NewServer(config *Config, logger *log.Logger, opts ...Option) *Server {
	options := serverOptions{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, cancel := context.WithCancel(context.Background())
	registry := NewRegistry(options.clock, logger, options.registry...)

	s := &Server{
		config:   config,
		registry: registry,
		hub:      NewHub(registry, config.Rooms, options.clock, logger),
		clock:    options.clock,
		logger:   logger.WithPrefix("server"),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return s
}

// Handler returns the HTTP routes served by s
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /games", s.handleGames)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the hub and the HTTP server on ln, shutting both down once ctx
// is cancelled or either fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.cancel()

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.hub.Run(ctx)
	})

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		s.cancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(s.ctx, conn, s.hub, s.config.Connection, s.clock, s.logger)
	s.logger.Debug("Client connected", "remote", conn.RemoteAddr().String())
	client.Start()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	allowed := s.config.Connection.AllowedOrigins
	if len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, r.Header.Get("Origin"))
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, banner)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.hub.Games(r.Context())
	if err != nil {
		http.Error(w, "server unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(games); err != nil {
		s.logger.Error("Failed to encode games", "error", err)
	}
}
