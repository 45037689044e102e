package server

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/oldmaid/internal/game"
	"github.com/lox/oldmaid/internal/protocol"
)

// Peer is one client channel. Send must not block; connections queue frames
// on a buffered channel.
type Peer interface {
	Send(frame []byte) error
}

// Handler applies decoded intents to the registry and fans the results out
// to the players' peers. Like the Registry it belongs to the hub goroutine.
type Handler struct {
	registry *Registry
	peers    map[string]Peer
	bound    map[Peer]map[string]struct{}
	logger   *log.Logger
}

// NewHandler creates a handler over registry.
func NewHandler(registry *Registry, logger *log.Logger) *Handler {
	return &Handler{
		registry: registry,
		peers:    make(map[string]Peer),
		bound:    make(map[Peer]map[string]struct{}),
		logger:   logger.WithPrefix("handler"),
	}
}

// Handle processes one inbound frame from peer to completion. Rejected
// frames are answered with an error frame; the channel stays open.
func (h *Handler) Handle(peer Peer, frame []byte) {
	intent, err := protocol.Decode(frame)
	if err != nil {
		var unknown *protocol.UnknownTypeError
		if errors.As(err, &unknown) {
			h.logger.Debug("Unknown message type", "type", unknown.Type)
			h.sendError(peer, unknown.Error())
			return
		}
		h.logger.Debug("Invalid frame", "error", err)
		h.sendError(peer, protocol.ErrInvalidFormat.Error())
		return
	}

	h.logger.Debug("Handling intent", "type", intent.IntentType())

	switch in := intent.(type) {
	case protocol.CreateGame:
		err = h.createGame(peer, in)
	case protocol.JoinGame:
		err = h.joinGame(peer, in)
	case protocol.StartGame:
		err = h.startGame(in)
	case protocol.NewGame:
		err = h.newGame(in)
	case protocol.LeaveGame:
		err = h.leaveGame(peer, in)
	case protocol.DiscardPairs:
		err = h.discardPairs(in)
	case protocol.PickCard:
		err = h.pickCard(in)
	}

	if err != nil {
		var gameErr *game.Error
		if !errors.As(err, &gameErr) {
			h.logger.Error("Intent failed", "type", intent.IntentType(), "error", err)
		}
		h.sendError(peer, err.Error())
	}
}

// Disconnect drops every player binding held by peer. Seats are kept.
func (h *Handler) Disconnect(peer Peer) {
	for playerID := range h.bound[peer] {
		delete(h.peers, playerID)
	}
	delete(h.bound, peer)
}

// Reap deletes idle rooms and releases their players' bindings.
func (h *Handler) Reap(timeout time.Duration) int {
	reaped := h.registry.Reap(timeout)
	for _, players := range reaped {
		for _, id := range players {
			h.unbind(id)
		}
	}
	return len(reaped)
}

func (h *Handler) createGame(peer Peer, in protocol.CreateGame) error {
	g, err := h.registry.Create(in.CustomGameID, in.Reverse)
	if err != nil {
		return err
	}

	if in.CreatorName == "" {
		h.send(peer, protocol.NewGameCreated(g.ID))
		return nil
	}

	_, p, err := h.registry.Join(g.ID, in.CreatorName)
	if err != nil {
		return err
	}
	h.bind(peer, p.ID)

	created := protocol.NewGameCreated(g.ID)
	created.Joined = true
	created.PlayerID = p.ID
	h.send(peer, created)
	h.broadcast(g)
	return nil
}

func (h *Handler) joinGame(peer Peer, in protocol.JoinGame) error {
	g, p, err := h.registry.Join(in.GameID, in.Name)
	if err != nil {
		return err
	}
	h.bind(peer, p.ID)
	h.send(peer, protocol.NewJoined(p.ID, g.ID))
	h.broadcast(g)
	return nil
}

// startGame ignores missing and already started games.
func (h *Handler) startGame(in protocol.StartGame) error {
	g, ok := h.registry.Get(in.GameID)
	if !ok || g.Phase() != game.Lobby {
		return nil
	}
	if err := g.Start(); err != nil {
		return err
	}

	h.logger.Info("Game started", "game", g.ID, "players", len(g.Players))
	for _, p := range g.Players {
		h.sendTo(p.ID, protocol.NewHand(p.Hand))
	}
	h.broadcast(g)
	h.logOutcome(g)
	return nil
}

func (h *Handler) newGame(in protocol.NewGame) error {
	g, ok := h.registry.Get(in.GameID)
	if !ok {
		return game.ErrGameNotFound
	}
	g.Reset()
	h.logger.Info("Game reset", "game", g.ID)
	h.broadcast(g)
	return nil
}

func (h *Handler) leaveGame(peer Peer, in protocol.LeaveGame) error {
	g, err := h.registry.Leave(in.GameID, in.PlayerID)
	if err != nil {
		return err
	}
	if g != nil {
		h.broadcast(g)
	}
	h.unbind(in.PlayerID)
	h.send(peer, protocol.NewLeftGame())
	return nil
}

func (h *Handler) discardPairs(in protocol.DiscardPairs) error {
	g, ok := h.registry.Get(in.GameID)
	if !ok {
		return game.ErrGameNotFound
	}
	p, err := g.Discard(in.PlayerID)
	if err != nil {
		return err
	}

	h.sendTo(p.ID, protocol.NewHand(p.Hand))
	h.broadcast(g)
	h.logOutcome(g)
	return nil
}

func (h *Handler) pickCard(in protocol.PickCard) error {
	g, ok := h.registry.Get(in.GameID)
	if !ok {
		return game.ErrGameNotFound
	}
	res, err := g.Pick(in.PlayerID, in.TargetID, in.CardIndex)
	if err != nil {
		return err
	}

	h.logger.Debug("Card picked", "game", g.ID, "picker", res.Picker.Name, "target", res.Target.Name)
	h.sendTo(res.Picker.ID, protocol.NewHand(res.Picker.Hand))
	h.sendTo(res.Target.ID, protocol.NewHand(res.Target.Hand))
	h.broadcast(g)
	if res.Ended {
		h.logOutcome(g)
	}
	return nil
}

func (h *Handler) logOutcome(g *game.Game) {
	if g.Phase() != game.Concluded {
		return
	}
	out := g.Outcome()
	switch out.Kind {
	case game.WinnerOutcome:
		h.logger.Info("Game over", "game", g.ID, "winner", out.Name)
	case game.LoserOutcome:
		h.logger.Info("Game over", "game", g.ID, "loser", out.Name)
	default:
		h.logger.Info("Game over without a result", "game", g.ID)
	}
}

func (h *Handler) bind(peer Peer, playerID string) {
	h.peers[playerID] = peer
	ids, ok := h.bound[peer]
	if !ok {
		ids = make(map[string]struct{})
		h.bound[peer] = ids
	}
	ids[playerID] = struct{}{}
}

func (h *Handler) unbind(playerID string) {
	peer, ok := h.peers[playerID]
	if !ok {
		return
	}
	delete(h.peers, playerID)
	delete(h.bound[peer], playerID)
	if len(h.bound[peer]) == 0 {
		delete(h.bound, peer)
	}
}

// broadcast sends the current game_state to every seated player with a live
// peer.
func (h *Handler) broadcast(g *game.Game) {
	frame, err := protocol.Encode(protocol.NewGameState(g))
	if err != nil {
		h.logger.Error("Failed to encode game state", "game", g.ID, "error", err)
		return
	}
	for _, p := range g.Players {
		if peer, ok := h.peers[p.ID]; ok {
			h.write(peer, frame)
		}
	}
}

// sendTo skips players without a live peer.
func (h *Handler) sendTo(playerID string, msg any) {
	if peer, ok := h.peers[playerID]; ok {
		h.send(peer, msg)
	}
}

func (h *Handler) sendError(peer Peer, message string) {
	h.send(peer, protocol.NewError(message))
}

func (h *Handler) send(peer Peer, msg any) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		h.logger.Error("Failed to encode message", "error", err)
		return
	}
	h.write(peer, frame)
}

func (h *Handler) write(peer Peer, frame []byte) {
	if err := peer.Send(frame); err != nil {
		h.logger.Debug("Dropped frame for peer", "error", err)
	}
}
