package game

import (
	"testing"

	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func TestReducePairs(t *testing.T) {
	tests := []struct {
		name     string
		hand     string
		expected string
	}{
		{name: "empty", hand: "", expected: ""},
		{name: "single pair", hand: "A♠ A♥", expected: ""},
		{name: "no pairs", hand: "A♠ 2♥ 3♦", expected: "A♠ 2♥ 3♦"},
		{name: "three of a kind keeps one", hand: "5♠ 5♥ 5♦", expected: "5♦"},
		{name: "four of a kind keeps none", hand: "K♠ K♥ K♦ K♣", expected: ""},
		{name: "joker never pairs", hand: "Joker Q♣ Q♦", expected: "Joker"},
		{name: "mixed", hand: "10♠ J♥ 10♦ Joker J♣ 2♠ 10♣", expected: "Joker 2♠ 10♣"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReducePairs(deck.MustParseCards(tt.hand))
			assert.Equal(t, deck.MustParseCards(tt.expected), got)
		})
	}
}

func TestReducePairsDoesNotModifyInput(t *testing.T) {
	hand := deck.MustParseCards("A♠ A♥ 3♦")
	_ = ReducePairs(hand)
	assert.Equal(t, deck.MustParseCards("A♠ A♥ 3♦"), hand)
}

func TestReducePairsProperties(t *testing.T) {
	rng := randutil.New(3)
	for i := 0; i < 200; i++ {
		cards := deck.NewDeck()
		randutil.Shuffle(rng, cards)
		hand := cards[:rng.IntN(len(cards))]

		once := ReducePairs(hand)
		assert.Equal(t, once, ReducePairs(once), "reduction must be idempotent")
		assert.Equal(t, deck.ContainsJoker(hand), deck.ContainsJoker(once))

		ranks := make(map[deck.Rank]int)
		for _, c := range once {
			if !c.IsJoker() {
				ranks[c.Rank]++
			}
		}
		for rank, n := range ranks {
			assert.Equal(t, 1, n, "rank %s survived twice", rank)
		}
	}
}
