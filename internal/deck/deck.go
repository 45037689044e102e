// Package deck defines the Old Maid card set: a standard 52-card deck plus a
// single Joker that never pairs.
package deck

// Size is the number of cards in a full deck, Joker included.
const Size = 53

// NewDeck returns a fresh, unshuffled deck of 52 standard cards followed by
// the Joker.
func NewDeck() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return append(cards, Joker)
}

// ContainsJoker reports whether the Joker is among cards
func ContainsJoker(cards []Card) bool {
	for _, c := range cards {
		if c.IsJoker() {
			return true
		}
	}
	return false
}
