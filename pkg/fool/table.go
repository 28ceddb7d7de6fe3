package fool

// Table is the in-play card area for the current trick. Cards are appended
// in play order; attack cards are slung, covers mark both the target and the
// covering card covered, and transferred cards stay uncovered until the new
// defender answers them.
type Table struct {
	trump        Suit
	cards        []*Card
	allowedRanks map[int]bool
}

// NewTable creates an empty table bound to the session trump suit.
func NewTable(trump Suit) *Table {
	return &Table{
		trump:        trump,
		allowedRanks: make(map[int]bool),
	}
}

// Trump returns the session trump suit.
func (t *Table) Trump() Suit {
	return t.trump
}

// Cards returns the table cards in play order. The slice must not be mutated.
func (t *Table) Cards() []*Card {
	return t.cards
}

// Len returns the number of cards on the table.
func (t *Table) Len() int {
	return len(t.cards)
}

// IsEmpty reports whether no card has been played this trick.
func (t *Table) IsEmpty() bool {
	return len(t.cards) == 0
}

// SlungCount returns the number of attack cards on the table.
func (t *Table) SlungCount() int {
	count := 0
	for _, c := range t.cards {
		if c.Slung {
			count++
		}
	}
	return count
}

// UncoveredCount returns the number of table cards still awaiting a cover.
func (t *Table) UncoveredCount() int {
	count := 0
	for _, c := range t.cards {
		if !c.Covered {
			count++
		}
	}
	return count
}

// FirstUncovered returns the earliest unresolved table card, or nil. Covers
// always target this card: the table is processed strictly in attack order.
func (t *Table) FirstUncovered() *Card {
	for _, c := range t.cards {
		if !c.Covered {
			return c
		}
	}
	return nil
}

// HasCover reports whether any cover has been played this trick.
func (t *Table) HasCover() bool {
	for _, c := range t.cards {
		if c.Covered {
			return true
		}
	}
	return false
}

// RankAllowed reports whether attackers may add cards of this rank.
func (t *Table) RankAllowed(rank int) bool {
	return t.allowedRanks[rank]
}

// CanAttack reports whether an attacker may play the card: always legal on an
// empty trick, otherwise the rank must already be present on the table.
func (t *Table) CanAttack(card *Card) bool {
	if len(t.allowedRanks) == 0 {
		return true
	}
	return t.allowedRanks[card.Rank]
}

// CanCover reports whether the card beats the first uncovered table card:
// same suit and higher rank, or trump against a non-trump.
func (t *Table) CanCover(card *Card) bool {
	target := t.FirstUncovered()
	if target == nil {
		return false
	}
	if target.Suit == card.Suit {
		return card.Rank > target.Rank
	}
	return card.Suit == t.trump
}

// CanTransfer reports whether the defender may redirect the trick with this
// card: never in round 1, only before any cover has been played, and only on
// an exact rank match with the first table card.
func (t *Table) CanTransfer(card *Card, firstRound bool) bool {
	if firstRound || len(t.cards) == 0 || t.HasCover() {
		return false
	}
	return card.Rank == t.cards[0].Rank
}

// PlaceAttack puts an attacker's card on the table.
func (t *Table) PlaceAttack(card *Card) {
	card.Open().Sling()
	t.place(card)
}

// PlaceCover answers the first uncovered table card. Both the target and the
// covering card are marked covered so "all covered" is a simple count.
func (t *Table) PlaceCover(card *Card) {
	if target := t.FirstUncovered(); target != nil {
		target.Cover()
	}
	card.Open().Cover()
	t.place(card)
}

// PlaceTransfer puts a defender's redirect card on the table. It is not
// slung (it was not played by an attacker) and stays uncovered: the next
// defender must answer it.
func (t *Table) PlaceTransfer(card *Card) {
	card.Open()
	t.place(card)
}

func (t *Table) place(card *Card) {
	t.cards = append(t.cards, card)
	t.allowedRanks[card.Rank] = true
}

// LimitReached reports whether the trick already carries as many attack
// cards as it may. The round limit (5 in round 1, 6 afterwards) is capped by
// the cap holder's capacity: their hand plus the non-attack cards already
// played, which return to them if they take.
func (t *Table) LimitReached(capHolder *Player, roundLimit int) bool {
	slung := t.SlungCount()
	outstanding := len(t.cards) - slung

	limit := roundLimit
	if capacity := capHolder.HandSize() + outstanding; capacity < limit {
		limit = capacity
	}

	return slung >= limit
}

// Clear removes every card from the table and resets the allowed ranks,
// returning the removed cards for redistribution.
func (t *Table) Clear() []*Card {
	cards := t.cards
	t.cards = nil
	t.allowedRanks = make(map[int]bool)
	return cards
}
