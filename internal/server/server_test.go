package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	s := NewServer(DefaultConfig(), testLogger(), WithRegistryOptions(WithSeed(11), WithPlayerIDs(sequentialIDs())))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.hub.Run(ctx) }()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.cancel()
		ts.Close()
		cancel()
		require.NoError(t, <-done)
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func write(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func read(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketGameFlow(t *testing.T) {
	_, ts := startTestServer(t)
	alice := dial(t, ts)
	bob := dial(t, ts)

	write(t, alice, map[string]any{"type": "create_game", "customGameId": "e2e", "creatorName": "Alice"})
	created := read(t, alice)
	assert.Equal(t, "game_created", created["type"])
	assert.Equal(t, true, created["joined"])
	aliceID := created["playerId"].(string)
	assert.Equal(t, "game_state", read(t, alice)["type"])

	write(t, bob, map[string]any{"type": "join_game", "gameId": "e2e", "name": "Bob"})
	joined := read(t, bob)
	assert.Equal(t, "joined", joined["type"])
	bobID := joined["playerId"].(string)
	assert.Len(t, statePlayers(t, read(t, bob)), 2)
	assert.Len(t, statePlayers(t, read(t, alice)), 2)

	write(t, alice, map[string]any{"type": "start_game", "gameId": "e2e"})
	for _, conn := range []*websocket.Conn{alice, bob} {
		hand := read(t, conn)
		assert.Equal(t, "hand", hand["type"])
		state := read(t, conn)
		assert.Equal(t, true, state["state"].(map[string]any)["started"])
	}

	write(t, bob, map[string]any{"type": "pick_card", "gameId": "e2e", "playerId": bobID, "targetId": aliceID, "cardIndex": 0})
	assert.Equal(t, map[string]any{"error": "Not your turn!"}, read(t, bob))

	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte("{oops")))
	assert.Equal(t, map[string]any{"error": "Invalid message format"}, read(t, bob))

	// The channel survives bad frames.
	write(t, bob, map[string]any{"type": "leave_game", "gameId": "e2e", "playerId": bobID})
	assert.Equal(t, map[string]any{"type": "left_game"}, read(t, bob))

	state := read(t, alice)
	assert.Equal(t, false, state["state"].(map[string]any)["started"])
}

func TestHTTPEndpoints(t *testing.T) {
	_, ts := startTestServer(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "Old Maid Game Server Running"},
		{"/health", http.StatusOK, "OK"},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestGamesEndpoint(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dial(t, ts)

	write(t, conn, map[string]any{"type": "create_game", "customGameId": "listed", "reverse": true, "creatorName": "Alice"})
	read(t, conn)
	read(t, conn)

	resp, err := http.Get(ts.URL + "/games")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var games []GameSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	require.Len(t, games, 1)
	assert.Equal(t, "listed", games[0].ID)
	assert.Equal(t, []string{"Alice"}, games[0].Players)
	assert.Equal(t, "lobby", games[0].Phase)
	assert.True(t, games[0].Reverse)
}

func TestCheckOrigin(t *testing.T) {
	config := DefaultConfig()
	config.Connection.AllowedOrigins = []string{"https://oldmaid.example"}
	s := NewServer(config, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://oldmaid.example")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "https://elsewhere.example")
	assert.False(t, s.checkOrigin(req))

	open := NewServer(DefaultConfig(), testLogger())
	assert.True(t, open.checkOrigin(req))
}

func TestServeShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(DefaultConfig(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
