package game

import (
	"fmt"
	"testing"

	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/randutil"
	"github.com/stretchr/testify/require"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi"}

// newActiveGame builds a game that is already in play with the given hands,
// bypassing the deal. Player i has id "p<i>" and name testNames[i].
func newActiveGame(t *testing.T, reverse bool, hands ...string) *Game {
	t.Helper()

	g := New("test", reverse, randutil.New(1))
	for i, h := range hands {
		p, err := g.AddPlayer(fmt.Sprintf("p%d", i), testNames[i])
		require.NoError(t, err)
		setHand(p, deck.MustParseCards(h))
	}
	g.phase = Active
	return g
}

func newLobbyGame(t *testing.T, players int) *Game {
	t.Helper()

	g := New("test", false, randutil.New(42))
	for i := 0; i < players; i++ {
		_, err := g.AddPlayer(fmt.Sprintf("p%d", i), testNames[i])
		require.NoError(t, err)
	}
	return g
}

func handsOf(g *Game) [][]deck.Card {
	hands := make([][]deck.Card, len(g.Players))
	for i, p := range g.Players {
		hands[i] = append([]deck.Card(nil), p.Hand...)
	}
	return hands
}

// requireFinishedMatchesHands checks the finished flag against every hand.
func requireFinishedMatchesHands(t *testing.T, g *Game) {
	t.Helper()
	for _, p := range g.Players {
		require.Equal(t, len(p.Hand) == 0, p.Finished, "player %s finished=%v with %d cards", p.Name, p.Finished, len(p.Hand))
	}
}
