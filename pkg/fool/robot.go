package fool

// RobotChoice is a suggested move for a robot seat. CardIndex is -1 when no
// legal card exists: an attacker should pass, a defender should take.
type RobotChoice struct {
	CardIndex int
	Card      *Card
	Transfer  bool
}

var noChoice = RobotChoice{CardIndex: -1}

// RobotChoice computes a greedy single-ply move for the given player. It
// never mutates state: the host feeds the choice back through PlayCard,
// ToggleTransferMode or PassOrTake like any other input.
//
// Defender strategy: transfer on an exact rank match when legal, otherwise
// the cheapest same-suit cover, otherwise the cheapest qualifying trump.
// Attacker strategy: lead the hand's preferred card on an empty trick,
// otherwise the first card whose rank is already on the table.
func (g *Game) RobotChoice(playerID string) RobotChoice {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, ok := g.players[playerID]
	if !ok || !g.started || g.isOver() {
		return noChoice
	}
	hand := p.hand

	if p.Role == RoleDefender {
		target := g.table.FirstUncovered()
		if target == nil {
			return noChoice
		}

		if g.round > 1 && !g.table.HasCover() {
			for i, c := range hand {
				if c.Rank == target.Rank {
					return RobotChoice{CardIndex: i, Card: c, Transfer: true}
				}
			}
		}

		best := -1
		for i, c := range hand {
			if c.Suit == target.Suit && c.Rank > target.Rank {
				if best < 0 || c.Rank < hand[best].Rank {
					best = i
				}
			}
		}
		if best >= 0 {
			return RobotChoice{CardIndex: best, Card: hand[best]}
		}

		if target.Suit != g.trump {
			for i, c := range hand {
				if c.Suit != g.trump {
					continue
				}
				if best < 0 || c.Rank < hand[best].Rank {
					best = i
				}
			}
		}
		if best >= 0 {
			return RobotChoice{CardIndex: best, Card: hand[best]}
		}
		return noChoice
	}

	if len(hand) == 0 {
		return noChoice
	}
	if g.table.IsEmpty() {
		// Hands sort rank-descending with trumps last, so index 0 is the
		// highest non-trump: lead it and keep the trumps back.
		return RobotChoice{CardIndex: 0, Card: hand[0]}
	}
	for i, c := range hand {
		if g.table.RankAllowed(c.Rank) {
			return RobotChoice{CardIndex: i, Card: c}
		}
	}
	return noChoice
}
