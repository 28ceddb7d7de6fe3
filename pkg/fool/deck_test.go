package fool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComplete(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	require.Equal(t, DeckSize, deck.Size())

	seen := make(map[string]bool, DeckSize)
	for _, c := range deck.cards {
		key := c.String()
		assert.False(t, seen[key], "duplicate card %s", key)
		seen[key] = true
		assert.GreaterOrEqual(t, c.Rank, RankSix)
		assert.LessOrEqual(t, c.Rank, RankAce)
		assert.True(t, c.FaceDown)
	}
	assert.Len(t, seen, DeckSize)
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(42)))
	b := NewDeck(rand.New(rand.NewSource(42)))

	for i := range a.cards {
		assert.Equal(t, a.cards[i].String(), b.cards[i].String(), "card %d differs", i)
	}

	c := NewDeck(rand.New(rand.NewSource(43)))
	same := true
	for i := range a.cards {
		if a.cards[i].String() != c.cards[i].String() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical decks")
}

func TestDeckDraw(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(7)))

	drawn := deck.Draw(6)
	require.Len(t, drawn, 6)
	assert.Equal(t, DeckSize-6, deck.Size())

	// Short draws are silent: the deck just runs out.
	deck.Draw(DeckSize - 6 - 2)
	short := deck.Draw(6)
	assert.Len(t, short, 2)
	assert.Equal(t, 0, deck.Size())
	assert.Empty(t, deck.Draw(6))
}

func TestDeckBottomStableUntilDrawn(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(11)))
	bottom := deck.Bottom()
	require.NotNil(t, bottom)

	deck.Draw(30)
	assert.Same(t, bottom, deck.Bottom())

	last := deck.Draw(6)
	require.Len(t, last, 6)
	assert.Same(t, bottom, last[5])
	assert.Nil(t, deck.Bottom())
}
