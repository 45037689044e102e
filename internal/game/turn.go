package game

import (
	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/randutil"
)

// PickResult describes a completed pick
type PickResult struct {
	Picker *Player
	Target *Player
	Card   deck.Card
	// Ended is true when the pick triggered the end condition
	Ended bool
}

// Discard removes the pairs from a player's hand. It does not pass the turn.
func (g *Game) Discard(playerID string) (*Player, error) {
	if err := g.requireActive(); err != nil {
		return nil, err
	}
	p, _ := g.Player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	hand := ReducePairs(p.Hand)
	randutil.Shuffle(g.rng, hand)
	setHand(p, hand)

	g.evaluate()
	return p, nil
}

// ValidatePick runs every check a pick has to pass without changing anything.
func (g *Game) ValidatePick(playerID, targetID string, cardIndex int) (picker, target *Player, err error) {
	if err := g.requireActive(); err != nil {
		return nil, nil, err
	}

	picker, pickerIdx := g.Player(playerID)
	if picker == nil {
		return nil, nil, ErrPlayerNotFound
	}
	target, targetIdx := g.Player(targetID)
	if target == nil {
		return nil, nil, ErrTargetNotFound
	}

	if g.Players[g.turn].ID != playerID {
		return nil, nil, ErrNotYourTurn
	}
	if playerID == targetID {
		return nil, nil, ErrSelfPick
	}

	// The target must be the very next seat...
	n := len(g.Players)
	next := (pickerIdx + 1) % n
	if targetIdx != next {
		return nil, nil, notNextPlayer(g.Players[next].Name)
	}

	// ...and that seat must still be in play.
	available := next
	for g.Players[available].Finished && available != pickerIdx {
		available = (available + 1) % n
	}
	if targetIdx != available {
		return nil, nil, notNextAvailable(g.Players[available].Name)
	}

	if len(target.Hand) == 0 {
		return nil, nil, ErrEmptyTarget
	}
	if cardIndex < 0 || cardIndex >= len(target.Hand) {
		return nil, nil, ErrInvalidCardIndex
	}

	return picker, target, nil
}

// Pick moves the card at cardIndex from the target's hand to the picker's,
// discards the picker's pairs, re-shuffles both hands and passes the turn
// unless the game ended.
func (g *Game) Pick(playerID, targetID string, cardIndex int) (PickResult, error) {
	picker, target, err := g.ValidatePick(playerID, targetID, cardIndex)
	if err != nil {
		return PickResult{}, err
	}

	card := target.Hand[cardIndex]
	remaining := make([]deck.Card, 0, len(target.Hand)-1)
	remaining = append(remaining, target.Hand[:cardIndex]...)
	remaining = append(remaining, target.Hand[cardIndex+1:]...)

	hand := ReducePairs(append(picker.Hand, card))
	randutil.Shuffle(g.rng, hand)
	randutil.Shuffle(g.rng, remaining)

	setHand(picker, hand)
	setHand(target, remaining)

	ended := g.evaluate()
	if !ended {
		g.advanceTurn()
	}

	return PickResult{Picker: picker, Target: target, Card: card, Ended: ended}, nil
}

// advanceTurn moves the turn forward to the next player still holding cards,
// giving up after one full lap.
func (g *Game) advanceTurn() {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		idx := (g.turn + step) % n
		if !g.Players[idx].Finished {
			g.turn = idx
			return
		}
	}
}

func (g *Game) requireActive() error {
	switch g.phase {
	case Lobby:
		return ErrNotStarted
	case Concluded:
		return ErrGameOver
	}
	return nil
}
