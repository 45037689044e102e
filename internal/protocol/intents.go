package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidFormat is returned for frames that are not a JSON object of the
// expected shape.
var ErrInvalidFormat = errors.New("Invalid message format")

// UnknownTypeError is returned for well-formed frames with an unknown type
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "Unknown message type: " + e.Type
}

// Intent is a decoded client request. The set of intents is closed: the
// concrete types below are the only implementations.
type Intent interface {
	IntentType() string
}

// Client -> Server Messages

type CreateGame struct {
	Reverse bool
	// CustomGameID is the trimmed client-chosen id, empty for a generated one
	CustomGameID string
	// CreatorName seats the creator immediately when non-empty
	CreatorName string
}

type JoinGame struct {
	GameID string
	Name   string
}

type StartGame struct {
	GameID string
}

type NewGame struct {
	GameID string
}

type LeaveGame struct {
	GameID   string
	PlayerID string
}

type DiscardPairs struct {
	GameID   string
	PlayerID string
}

// PickCard carries the card position; missing or fractional indexes decode to
// -1 so the engine reports them as an invalid index in the usual order.
type PickCard struct {
	GameID    string
	PlayerID  string
	TargetID  string
	CardIndex int
}

func (CreateGame) IntentType() string   { return TypeCreateGame }
func (JoinGame) IntentType() string     { return TypeJoinGame }
func (StartGame) IntentType() string    { return TypeStartGame }
func (NewGame) IntentType() string      { return TypeNewGame }
func (LeaveGame) IntentType() string    { return TypeLeaveGame }
func (DiscardPairs) IntentType() string { return TypeDiscardPairs }
func (PickCard) IntentType() string     { return TypePickCard }

// envelope is the union of every inbound field
type envelope struct {
	Type         string   `json:"type"`
	GameID       string   `json:"gameId"`
	PlayerID     string   `json:"playerId"`
	TargetID     string   `json:"targetId"`
	Name         string   `json:"name"`
	Reverse      bool     `json:"reverse"`
	CustomGameID *string  `json:"customGameId"`
	CreatorName  *string  `json:"creatorName"`
	CardIndex    *float64 `json:"cardIndex"`
}

// Decode parses one inbound frame into a typed intent.
func Decode(frame []byte) (Intent, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	switch env.Type {
	case TypeCreateGame:
		return CreateGame{
			Reverse:      env.Reverse,
			CustomGameID: trimmed(env.CustomGameID),
			CreatorName:  trimmed(env.CreatorName),
		}, nil
	case TypeJoinGame:
		return JoinGame{GameID: env.GameID, Name: env.Name}, nil
	case TypeStartGame:
		return StartGame{GameID: env.GameID}, nil
	case TypeNewGame:
		return NewGame{GameID: env.GameID}, nil
	case TypeLeaveGame:
		return LeaveGame{GameID: env.GameID, PlayerID: env.PlayerID}, nil
	case TypeDiscardPairs:
		return DiscardPairs{GameID: env.GameID, PlayerID: env.PlayerID}, nil
	case TypePickCard:
		return PickCard{
			GameID:    env.GameID,
			PlayerID:  env.PlayerID,
			TargetID:  env.TargetID,
			CardIndex: cardIndex(env.CardIndex),
		}, nil
	default:
		return nil, &UnknownTypeError{Type: env.Type}
	}
}

// Encode marshals an outbound message
func Encode(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func cardIndex(v *float64) int {
	if v == nil || *v != math.Trunc(*v) || *v < math.MinInt32 || *v > math.MaxInt32 {
		return -1
	}
	return int(*v)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
