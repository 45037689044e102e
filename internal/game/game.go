package game

import (
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/randutil"
)

const (
	MinPlayers = 2
	MaxPlayers = 8
)

// Phase is the explicit lifecycle state of a game
type Phase int

const (
	Lobby Phase = iota
	Active
	Concluded
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case Active:
		return "active"
	case Concluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// OutcomeKind says what, if anything, the end condition decided
type OutcomeKind int

const (
	NoOutcome OutcomeKind = iota
	WinnerOutcome
	LoserOutcome
)

// Outcome is the terminal result of a concluded game. At most one of winner
// or loser exists per game.
type Outcome struct {
	Kind OutcomeKind
	Name string
}

// Player is a seat in a game
type Player struct {
	ID       string
	Name     string
	Hand     []deck.Card
	Finished bool
}

// HasJoker returns true if the player holds the Joker
func (p *Player) HasJoker() bool {
	return deck.ContainsJoker(p.Hand)
}

// Game is one room: its roster, hands and turn state.
type Game struct {
	ID      string
	Reverse bool
	Players []*Player

	phase   Phase
	turn    int
	outcome Outcome
	rng     *rand.Rand
}

// New creates a game in the Lobby phase. rng drives the deal and every hand
// re-shuffle.
func New(id string, reverse bool, rng *rand.Rand) *Game {
	return &Game{
		ID:      id,
		Reverse: reverse,
		Players: make([]*Player, 0, MaxPlayers),
		rng:     rng,
	}
}

func (g *Game) Phase() Phase {
	return g.phase
}

// Started reports whether cards have been dealt (Active or Concluded)
func (g *Game) Started() bool {
	return g.phase != Lobby
}

// CurrentTurn returns the seat index of the player on turn
func (g *Game) CurrentTurn() int {
	return g.turn
}

func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Winner returns the winner's name, if one was decided
func (g *Game) Winner() (string, bool) {
	return g.outcome.Name, g.outcome.Kind == WinnerOutcome
}

// Loser returns the loser's name, if one was decided
func (g *Game) Loser() (string, bool) {
	return g.outcome.Name, g.outcome.Kind == LoserOutcome
}

// Player looks up a player by id, returning its seat index or -1.
func (g *Game) Player(id string) (*Player, int) {
	for i, p := range g.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// AddPlayer seats a new player at the end of the turn order. The name is
// trimmed and must not be empty.
func (g *Game) AddPlayer(id, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(g.Players) >= MaxPlayers {
		return nil, ErrGameFull
	}
	if g.phase != Lobby {
		return nil, ErrInProgress
	}

	p := &Player{ID: id, Name: name, Hand: []deck.Card{}}
	g.Players = append(g.Players, p)
	return p, nil
}

// Start shuffles a fresh deck, deals it, discards each hand's pairs and moves
// the game to Active (or straight to Concluded if the deal already decides
// it).
func (g *Game) Start() error {
	if g.phase != Lobby {
		return ErrAlreadyStarted
	}
	if len(g.Players) < MinPlayers || len(g.Players) > MaxPlayers {
		return ErrPlayerCount
	}

	cards := deck.NewDeck()
	randutil.Shuffle(g.rng, cards)
	hands, err := Deal(cards, len(g.Players))
	if err != nil {
		return err
	}

	g.phase = Active
	g.turn = 0
	g.outcome = Outcome{}
	for i, p := range g.Players {
		setHand(p, ReducePairs(hands[i]))
	}

	g.evaluate()
	return nil
}

// Reset returns the game to the Lobby with the same players and mode.
func (g *Game) Reset() {
	g.phase = Lobby
	g.turn = 0
	g.outcome = Outcome{}
	for _, p := range g.Players {
		p.Hand = []deck.Card{}
		p.Finished = false
	}
}

// RemovePlayer drops a player from the roster. Cards they held are not
// redistributed. A started game with fewer than two players left returns to
// the Lobby.
func (g *Game) RemovePlayer(id string) bool {
	_, idx := g.Player(id)
	if idx < 0 {
		return false
	}
	g.Players = slices.Delete(g.Players, idx, idx+1)

	if len(g.Players) == 0 {
		return true
	}
	if g.turn >= len(g.Players) {
		g.turn = 0
	}
	if g.phase != Lobby && len(g.Players) < MinPlayers {
		g.phase = Lobby
		g.outcome = Outcome{}
	}
	return true
}

// CardCount returns the total number of cards held across all hands
func (g *Game) CardCount() int {
	n := 0
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}

// setHand replaces a hand and keeps Finished in step with it.
func setHand(p *Player, hand []deck.Card) {
	p.Hand = hand
	p.Finished = len(hand) == 0
}
