package fool

import "math/rand"

// DeckSize is the number of cards in play: 9 ranks across 4 suits.
const DeckSize = 36

// Deck represents an ordered stack of cards. The top of the deck is index 0;
// the bottom card fixes the trump suit for the whole game and is drawn last.
type Deck struct {
	cards []*Card
	rng   *rand.Rand
}

// NewDeck creates a shuffled 36-card deck using the given random number generator
func NewDeck(rng *rand.Rand) *Deck {
	deck := &Deck{
		cards: make([]*Card, 0, DeckSize),
		rng:   rng,
	}

	for rank := RankSix; rank <= RankAce; rank++ {
		for _, suit := range suits {
			deck.cards = append(deck.cards, NewCard(rank, suit))
		}
	}

	deck.Shuffle()

	return deck
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns up to n cards from the top of the deck. A short
// result means the deck ran out; callers treat that as "no more cards", it is
// never an error.
func (d *Deck) Draw(n int) []*Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	drawn := d.cards[:n]
	d.cards = d.cards[n:]
	return drawn
}

// Bottom returns the bottom card of the deck without removing it, or nil if
// the deck is empty. At game start this is the revealed trump card.
func (d *Deck) Bottom() *Card {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[len(d.cards)-1]
}

// Size returns the number of cards remaining in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}
