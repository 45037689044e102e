package game

import "github.com/lox/oldmaid/internal/deck"

// ReducePairs returns hand with every same-rank pair removed. The Joker never
// pairs. A rank held an odd number of times keeps exactly one card (its last
// occurrence); survivors keep their relative order. The input is not modified.
func ReducePairs(hand []deck.Card) []deck.Card {
	total := make(map[deck.Rank]int, len(hand))
	for _, c := range hand {
		if !c.IsJoker() {
			total[c.Rank]++
		}
	}

	seen := make(map[deck.Rank]int, len(total))
	out := make([]deck.Card, 0, len(hand))
	for _, c := range hand {
		if c.IsJoker() {
			out = append(out, c)
			continue
		}
		seen[c.Rank]++
		if total[c.Rank]%2 == 1 && seen[c.Rank] == total[c.Rank] {
			out = append(out, c)
		}
	}
	return out
}
