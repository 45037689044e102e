package game

// evaluate checks the end condition after a hand changed size. It returns
// true once the game is over; a concluded game is never re-decided.
func (g *Game) evaluate() bool {
	if g.phase == Concluded {
		return true
	}

	var active []*Player
	for _, p := range g.Players {
		if !p.Finished {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		// Unreachable while the Joker stays in some hand, but settle it anyway.
		for _, p := range g.Players {
			if p.HasJoker() {
				g.outcome = g.jokerHolderOutcome(p)
				break
			}
		}
	case 1:
		last := active[0]
		switch {
		case last.HasJoker():
			g.outcome = g.jokerHolderOutcome(last)
		case !g.Reverse:
			g.outcome = Outcome{Kind: WinnerOutcome, Name: last.Name}
		default:
			// Reverse mode without the Joker: the game ends with no result.
			g.outcome = Outcome{}
		}
	default:
		return false
	}

	g.phase = Concluded
	return true
}

func (g *Game) jokerHolderOutcome(p *Player) Outcome {
	if g.Reverse {
		return Outcome{Kind: WinnerOutcome, Name: p.Name}
	}
	return Outcome{Kind: LoserOutcome, Name: p.Name}
}
