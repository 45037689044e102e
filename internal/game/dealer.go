package game

import "github.com/lox/oldmaid/internal/deck"

// Deal partitions cards across n hands. Every hand first receives
// len(cards)/n consecutive cards in seat order, then the remaining
// len(cards)%n cards go one each to the first seats.
func Deal(cards []deck.Card, n int) ([][]deck.Card, error) {
	if n < MinPlayers {
		return nil, ErrInvalidPlayerCount
	}

	base := len(cards) / n
	extra := len(cards) % n
	hands := make([][]deck.Card, n)

	next := 0
	for seat := 0; seat < n; seat++ {
		size := base
		if seat < extra {
			size++
		}
		hands[seat] = make([]deck.Card, 0, size)
		hands[seat] = append(hands[seat], cards[next:next+base]...)
		next += base
	}
	for seat := 0; seat < extra; seat++ {
		hands[seat] = append(hands[seat], cards[next])
		next++
	}

	return hands, nil
}
