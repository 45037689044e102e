package server

import (
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/oldmaid/internal/game"
	"github.com/lox/oldmaid/internal/gameid"
	"github.com/lox/oldmaid/internal/randutil"
)

var ErrGameIDTaken = game.Validation("game_id_taken", "Game ID already exists. Please choose a different one.")

// room is a game plus the bookkeeping the registry needs to list and reap it.
type room struct {
	game         *game.Game
	created      time.Time
	lastActivity time.Time
}

// GameSummary holds lightweight metadata for the /games listing.
type GameSummary struct {
	ID           string    `json:"id"`
	Players      []string  `json:"players"`
	Phase        string    `json:"phase"`
	Reverse      bool      `json:"reverse"`
	Created      time.Time `json:"created"`
	LastActivity time.Time `json:"last_activity"`
}

// Registry maps game ids to live rooms. It is not safe for concurrent use;
// the hub goroutine owns it.
type Registry struct {
	rooms     map[string]*room
	ids       *gameid.Generator
	newPlayer func() string
	rng       *rand.Rand
	clock     quartz.Clock
	logger    *log.Logger
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithIDGenerator replaces the crypto-backed game id generator.
func WithIDGenerator(g *gameid.Generator) RegistryOption {
	return func(r *Registry) { r.ids = g }
}

// WithPlayerIDs replaces the uuid player id source.
func WithPlayerIDs(next func() string) RegistryOption {
	return func(r *Registry) { r.newPlayer = next }
}

// WithSeed makes every game's shuffles deterministic.
func WithSeed(seed int64) RegistryOption {
	return func(r *Registry) { r.rng = randutil.New(seed) }
}

// NewRegistry constructs an empty registry.
func NewRegistry(clock quartz.Clock, logger *log.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		rooms:     make(map[string]*room),
		ids:       gameid.NewGenerator(nil),
		newPlayer: uuid.NewString,
		clock:     clock,
		logger:    logger.WithPrefix("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a new room in the Lobby. A non-empty customID is trimmed and
// checked for length, then collisions, then charset; otherwise a fresh id is
// generated.
func (r *Registry) Create(customID string, reverse bool) (*game.Game, error) {
	id := strings.TrimSpace(customID)
	if id != "" {
		if err := gameid.CheckLength(id); err != nil {
			return nil, game.Validation("game_id_length", err.Error())
		}
		if _, exists := r.rooms[id]; exists {
			return nil, ErrGameIDTaken
		}
		if err := gameid.CheckCharset(id); err != nil {
			return nil, game.Validation("game_id_charset", err.Error())
		}
	} else {
		id = r.ids.Generate()
		for r.rooms[id] != nil {
			id = r.ids.Generate()
		}
	}

	now := r.clock.Now("registry", "create")
	g := game.New(id, reverse, r.gameRand())
	r.rooms[id] = &room{game: g, created: now, lastActivity: now}
	r.logger.Info("Game created", "game", id, "reverse", reverse, "custom", customID != "")
	return g, nil
}

// Join seats a new player and returns their generated id.
func (r *Registry) Join(gameID, name string) (*game.Game, *game.Player, error) {
	rm, ok := r.rooms[gameID]
	if !ok {
		return nil, nil, game.ErrGameNotFound
	}
	p, err := rm.game.AddPlayer(r.newPlayer(), name)
	if err != nil {
		return nil, nil, err
	}
	r.touch(rm)
	r.logger.Info("Player joined", "game", gameID, "player", p.Name, "id", p.ID)
	return rm.game, p, nil
}

// Leave removes a player. The room is deleted once nobody is left, in which
// case the returned game is nil. Leaving with an unknown player id is not an
// error.
func (r *Registry) Leave(gameID, playerID string) (*game.Game, error) {
	rm, ok := r.rooms[gameID]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	if rm.game.RemovePlayer(playerID) {
		r.logger.Info("Player left", "game", gameID, "id", playerID)
	}
	r.touch(rm)
	if len(rm.game.Players) == 0 {
		r.Delete(gameID)
		return nil, nil
	}
	return rm.game, nil
}

// Get looks up a room and marks it active.
func (r *Registry) Get(gameID string) (*game.Game, bool) {
	rm, ok := r.rooms[gameID]
	if !ok {
		return nil, false
	}
	r.touch(rm)
	return rm.game, true
}

// Delete removes a room by id.
func (r *Registry) Delete(gameID string) bool {
	if _, ok := r.rooms[gameID]; !ok {
		return false
	}
	delete(r.rooms, gameID)
	r.logger.Info("Game deleted", "game", gameID)
	return true
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	return len(r.rooms)
}

// List returns a snapshot of every room, oldest first.
func (r *Registry) List() []GameSummary {
	summaries := make([]GameSummary, 0, len(r.rooms))
	for id, rm := range r.rooms {
		players := make([]string, len(rm.game.Players))
		for i, p := range rm.game.Players {
			players[i] = p.Name
		}
		summaries = append(summaries, GameSummary{
			ID:           id,
			Players:      players,
			Phase:        rm.game.Phase().String(),
			Reverse:      rm.game.Reverse,
			Created:      rm.created,
			LastActivity: rm.lastActivity,
		})
	}
	slices.SortFunc(summaries, func(a, b GameSummary) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return summaries
}

// Reap deletes rooms idle for at least timeout and returns their ids along
// with the players they held.
func (r *Registry) Reap(timeout time.Duration) map[string][]string {
	now := r.clock.Now("registry", "reap")
	reaped := make(map[string][]string)
	for id, rm := range r.rooms {
		if now.Sub(rm.lastActivity) < timeout {
			continue
		}
		players := make([]string, len(rm.game.Players))
		for i, p := range rm.game.Players {
			players[i] = p.ID
		}
		reaped[id] = players
		delete(r.rooms, id)
		r.logger.Info("Reaped idle game", "game", id, "idle", now.Sub(rm.lastActivity))
	}
	return reaped
}

func (r *Registry) touch(rm *room) {
	rm.lastActivity = r.clock.Now("registry", "touch")
}

// gameRand returns the rng for a new game: a child of the registry's seeded
// source when one is set, otherwise a fresh crypto seed.
func (r *Registry) gameRand() *rand.Rand {
	if r.rng != nil {
		return randutil.New(r.rng.Int64())
	}
	return randutil.New(randutil.NewSeed())
}
