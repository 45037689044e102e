// Package game implements the Old Maid session engine: dealing, pair
// reduction, turn sequencing and end-of-game detection for a single room.
//
// # Basic Usage
//
//	g := game.New("abc", false, randutil.New(42))
//	_, _ = g.AddPlayer(uuid.NewString(), "Alice")
//	_, _ = g.AddPlayer(uuid.NewString(), "Bob")
//	if err := g.Start(); err != nil {
//	    // fewer than two or more than eight players
//	}
//	res, err := g.Pick(bobID, aliceID, 0) // Bob is not on turn: ErrNotYourTurn
//
// # State machine
//
// A Game is always in exactly one Phase:
//   - Lobby: players may join, hands are empty
//   - Active: cards are dealt, Discard and Pick are accepted
//   - Concluded: the end condition fired; Outcome holds the winner or loser
//     (or nothing, for the reverse-mode case where the last player does not
//     hold the Joker)
//
// Reset returns any phase to Lobby with the same roster. RemovePlayer drops a
// game back to Lobby when fewer than two players remain.
//
// A Game is not safe for concurrent use; the server mutates every game from a
// single goroutine.
package game
