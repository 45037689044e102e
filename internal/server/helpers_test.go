package server

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// sequentialIDs hands out player-1, player-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("player-%d", n)
	}
}

func newTestRegistry(t *testing.T, opts ...RegistryOption) (*Registry, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	opts = append([]RegistryOption{WithSeed(7), WithPlayerIDs(sequentialIDs())}, opts...)
	return NewRegistry(clock, testLogger(), opts...), clock
}

func newTestHandler(t *testing.T) (*Handler, *Registry, *quartz.Mock) {
	t.Helper()
	registry, clock := newTestRegistry(t)
	return NewHandler(registry, testLogger()), registry, clock
}

// fakePeer records every frame it is sent.
type fakePeer struct {
	frames []map[string]any
	err    error
}

func (p *fakePeer) Send(frame []byte) error {
	if p.err != nil {
		return p.err
	}
	var msg map[string]any
	if err := json.Unmarshal(frame, &msg); err != nil {
		return err
	}
	p.frames = append(p.frames, msg)
	return nil
}

func (p *fakePeer) last(t *testing.T) map[string]any {
	t.Helper()
	require.NotEmpty(t, p.frames, "peer received no frames")
	return p.frames[len(p.frames)-1]
}

func (p *fakePeer) ofType(typ string) []map[string]any {
	var out []map[string]any
	for _, f := range p.frames {
		if f["type"] == typ {
			out = append(out, f)
		}
	}
	return out
}

func (p *fakePeer) errors() []string {
	var out []string
	for _, f := range p.frames {
		if msg, ok := f["error"].(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (p *fakePeer) reset() {
	p.frames = nil
}

func send(t *testing.T, h *Handler, peer Peer, msg map[string]any) {
	t.Helper()
	frame, err := json.Marshal(msg)
	require.NoError(t, err)
	h.Handle(peer, frame)
}

// seat creates a game with the given custom id and joins one peer per name.
func seat(t *testing.T, h *Handler, gameID string, names ...string) []*fakePeer {
	t.Helper()

	creator := &fakePeer{}
	send(t, h, creator, map[string]any{"type": "create_game", "customGameId": gameID})
	require.Empty(t, creator.errors())

	peers := make([]*fakePeer, len(names))
	for i, name := range names {
		peers[i] = &fakePeer{}
		send(t, h, peers[i], map[string]any{"type": "join_game", "gameId": gameID, "name": name})
		require.Empty(t, peers[i].errors())
	}
	for _, p := range peers {
		p.reset()
	}
	return peers
}

func playerID(t *testing.T, h *Handler, gameID string, seat int) string {
	t.Helper()
	g, ok := h.registry.Get(gameID)
	require.True(t, ok)
	require.Greater(t, len(g.Players), seat)
	return g.Players[seat].ID
}

// statePlayers pulls the players array out of a game_state frame.
func statePlayers(t *testing.T, frame map[string]any) []map[string]any {
	t.Helper()
	require.Equal(t, "game_state", frame["type"])
	state := frame["state"].(map[string]any)
	raw := state["players"].([]any)
	players := make([]map[string]any, len(raw))
	for i, p := range raw {
		players[i] = p.(map[string]any)
	}
	return players
}
