// Package protocol defines the JSON frames exchanged over the game WebSocket.
package protocol

import (
	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/game"
)

const (
	// Client -> Server
	TypeCreateGame   = "create_game"
	TypeJoinGame     = "join_game"
	TypeStartGame    = "start_game"
	TypeNewGame      = "new_game"
	TypeLeaveGame    = "leave_game"
	TypeDiscardPairs = "discard_pairs"
	TypePickCard     = "pick_card"

	// Server -> Client
	TypeGameCreated = "game_created"
	TypeJoined      = "joined"
	TypeGameState   = "game_state"
	TypeHand        = "hand"
	TypeLeftGame    = "left_game"
)

// Server -> Client Messages

// GameCreated answers create_game. Joined and PlayerID are only set when the
// creator was seated straight away.
type GameCreated struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId"`
	Joined   bool   `json:"joined,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

// Joined answers join_game
type Joined struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId"`
}

// GameState is broadcast to every seated player after each change
type GameState struct {
	Type  string `json:"type"`
	State State  `json:"state"`
}

// State is the public view of a room. Every hand is included; clients are
// trusted to render other players' cards face down.
type State struct {
	Players     []PlayerState `json:"players"`
	CurrentTurn int           `json:"currentTurn"`
	Reverse     bool          `json:"reverse"`
	Started     bool          `json:"started"`
	Loser       *string       `json:"loser"`
	Winner      *string       `json:"winner"`
}

// PlayerState is one seat in State
type PlayerState struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Finished  bool        `json:"finished"`
	HandCount int         `json:"handCount"`
	Hand      []deck.Card `json:"hand"`
}

// Hand privately carries a player's own cards
type Hand struct {
	Type string      `json:"type"`
	Hand []deck.Card `json:"hand"`
}

// LeftGame confirms leave_game
type LeftGame struct {
	Type string `json:"type"`
}

// Error is the only frame without a type field
type Error struct {
	Error string `json:"error"`
}

func NewGameCreated(gameID string) *GameCreated {
	return &GameCreated{Type: TypeGameCreated, GameID: gameID}
}

func NewJoined(playerID, gameID string) *Joined {
	return &Joined{Type: TypeJoined, PlayerID: playerID, GameID: gameID}
}

func NewHand(cards []deck.Card) *Hand {
	return &Hand{Type: TypeHand, Hand: nonNil(cards)}
}

func NewLeftGame() *LeftGame {
	return &LeftGame{Type: TypeLeftGame}
}

func NewError(message string) *Error {
	return &Error{Error: message}
}

// NewGameState snapshots g for broadcasting
func NewGameState(g *game.Game) *GameState {
	return &GameState{Type: TypeGameState, State: StateFromGame(g)}
}

// StateFromGame converts a game into its wire view
func StateFromGame(g *game.Game) State {
	players := make([]PlayerState, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Finished:  p.Finished,
			HandCount: len(p.Hand),
			Hand:      nonNil(p.Hand),
		}
	}

	state := State{
		Players:     players,
		CurrentTurn: g.CurrentTurn(),
		Reverse:     g.Reverse,
		Started:     g.Started(),
	}
	if name, ok := g.Winner(); ok {
		state.Winner = &name
	}
	if name, ok := g.Loser(); ok {
		state.Loser = &name
	}
	return state
}

func nonNil(cards []deck.Card) []deck.Card {
	if cards == nil {
		return []deck.Card{}
	}
	return cards
}
