package fool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCard(t *testing.T) {
	c := NewCard(RankQueen, Spades)
	assert.Equal(t, RankQueen, c.Rank)
	assert.Equal(t, Spades, c.Suit)
	assert.Equal(t, Black, c.Color)
	assert.True(t, c.FaceDown)
	assert.False(t, c.Covered)
	assert.False(t, c.Slung)

	assert.Equal(t, Red, NewCard(RankSix, Hearts).Color)
	assert.Equal(t, Red, NewCard(RankSix, Diamonds).Color)
	assert.Equal(t, Black, NewCard(RankSix, Clubs).Color)
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "Q♠", NewCard(RankQueen, Spades).String())
	assert.Equal(t, "10♥", NewCard(RankTen, Hearts).String())
	assert.Equal(t, "A♦", NewCard(RankAce, Diamonds).String())
	assert.Equal(t, "6♣", NewCard(RankSix, Clubs).String())
}

func TestCardReset(t *testing.T) {
	c := NewCard(RankKing, Hearts)
	c.Open().Sling().Cover()
	assert.False(t, c.FaceDown)
	assert.True(t, c.Slung)
	assert.True(t, c.Covered)

	c.Reset()
	assert.False(t, c.FaceDown)
	assert.False(t, c.Slung)
	assert.False(t, c.Covered)
}

func TestSortHand(t *testing.T) {
	hand := []*Card{
		NewCard(RankSix, Spades),
		NewCard(RankAce, Hearts),
		NewCard(RankKing, Spades),
		NewCard(RankSeven, Clubs),
		NewCard(RankQueen, Diamonds),
	}
	sortHand(hand, Spades)

	// Rank-descending with trumps at the back.
	want := []string{"A♥", "Q♦", "7♣", "K♠", "6♠"}
	got := make([]string, len(hand))
	for i, c := range hand {
		got[i] = c.String()
	}
	assert.Equal(t, want, got)
}
