package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/protocol"
)

var (
	ErrNoGame   = errors.New("not in a game; use create or join first")
	ErrNoTarget = errors.New("nobody to pick from")
)

// Session tracks what this client knows about its game
type Session struct {
	Name     string
	GameID   string
	PlayerID string
	Hand     []deck.Card
	State    *protocol.State
}

// Apply folds a server message into the session.
func (s *Session) Apply(msg Message) {
	switch msg.Type {
	case protocol.TypeGameCreated:
		s.GameID = msg.GameID
		if msg.Joined {
			s.PlayerID = msg.PlayerID
		}
	case protocol.TypeJoined:
		s.GameID = msg.GameID
		s.PlayerID = msg.PlayerID
	case protocol.TypeHand:
		s.Hand = msg.Hand
	case protocol.TypeGameState:
		s.State = msg.State
	case protocol.TypeLeftGame:
		*s = Session{Name: s.Name}
	}
}

// Seat returns this player's index in the last state, or -1.
func (s *Session) Seat() int {
	if s.State == nil {
		return -1
	}
	for i, p := range s.State.Players {
		if p.ID == s.PlayerID {
			return i
		}
	}
	return -1
}

// MyTurn reports whether the last state has this player on turn
func (s *Session) MyTurn() bool {
	seat := s.Seat()
	return seat >= 0 && s.State.Started && s.State.CurrentTurn == seat
}

// NextTarget is the first player after this one who still holds cards.
func (s *Session) NextTarget() (protocol.PlayerState, bool) {
	seat := s.Seat()
	if seat < 0 {
		return protocol.PlayerState{}, false
	}
	n := len(s.State.Players)
	for step := 1; step < n; step++ {
		p := s.State.Players[(seat+step)%n]
		if !p.Finished {
			return p, true
		}
	}
	return protocol.PlayerState{}, false
}

// Command turns a typed line into a request.
//
//	create [id] [reverse]   open a room and sit down
//	join <game>             join a room
//	start | new | leave | discard
//	pick <index>            take a card from the next player
func (s *Session) Command(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, errors.New("empty command")
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "create":
		req := Request{Type: protocol.TypeCreateGame, CreatorName: s.Name}
		for _, arg := range args {
			if strings.EqualFold(arg, "reverse") {
				req.Reverse = true
				continue
			}
			req.CustomGameID = arg
		}
		return req, nil

	case "join":
		if len(args) != 1 {
			return Request{}, errors.New("usage: join <game>")
		}
		return Request{Type: protocol.TypeJoinGame, GameID: args[0], Name: s.Name}, nil
	}

	if s.GameID == "" {
		return Request{}, ErrNoGame
	}

	switch cmd {
	case "start":
		return Request{Type: protocol.TypeStartGame, GameID: s.GameID}, nil
	case "new", "reset":
		return Request{Type: protocol.TypeNewGame, GameID: s.GameID}, nil
	case "leave":
		return Request{Type: protocol.TypeLeaveGame, GameID: s.GameID, PlayerID: s.PlayerID}, nil
	case "discard":
		return Request{Type: protocol.TypeDiscardPairs, GameID: s.GameID, PlayerID: s.PlayerID}, nil
	case "pick":
		if len(args) != 1 {
			return Request{}, errors.New("usage: pick <index>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return Request{}, fmt.Errorf("invalid index %q", args[0])
		}
		target, ok := s.NextTarget()
		if !ok {
			return Request{}, ErrNoTarget
		}
		return Request{
			Type:      protocol.TypePickCard,
			GameID:    s.GameID,
			PlayerID:  s.PlayerID,
			TargetID:  target.ID,
			CardIndex: &index,
		}, nil
	}

	return Request{}, fmt.Errorf("unknown command %q", cmd)
}
