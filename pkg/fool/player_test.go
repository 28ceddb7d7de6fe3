package fool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerNeedCards(t *testing.T) {
	p := NewPlayer("alice", false)
	assert.Equal(t, 6, p.NeedCards())

	p.AddCards([]*Card{
		NewCard(RankSix, Hearts),
		NewCard(RankSeven, Hearts),
		NewCard(RankEight, Hearts),
		NewCard(RankNine, Hearts),
	}, Spades)
	assert.Equal(t, 2, p.NeedCards())

	// A taker's discard is about to come back from the table, so it counts
	// against the refill.
	p.pickCard(0)
	p.pickCard(0)
	assert.Equal(t, 4, p.NeedCards())
	p.Role = RoleTaker
	assert.Equal(t, 2, p.NeedCards())
}

func TestPlayerPickCard(t *testing.T) {
	p := NewPlayer("bob", false)
	p.AddCards([]*Card{
		NewCard(RankAce, Hearts),
		NewCard(RankSix, Hearts),
	}, Spades)
	require.Equal(t, 2, p.HandSize())

	card := p.pickCard(0)
	assert.Equal(t, RankAce, card.Rank)
	assert.Equal(t, 1, p.HandSize())
	assert.Len(t, p.discard, 1)
}

func TestPlayerCanPlayCard(t *testing.T) {
	p := NewPlayer("carol", false)
	p.AddCards([]*Card{NewCard(RankTen, Clubs)}, Spades)

	assert.False(t, p.CanPlayCard(0), "inactive player must not play")
	p.Activate()
	assert.True(t, p.CanPlayCard(0))
	assert.False(t, p.CanPlayCard(1), "out of range index")
	assert.False(t, p.CanPlayCard(-1))

	p.Left = true
	assert.False(t, p.CanPlayCard(0), "eliminated player must not play")
}

func TestPlayerResetRoundState(t *testing.T) {
	p := NewPlayer("dave", false)
	p.Role = RoleDefender
	p.CompletedAttack = true
	p.TransferMode = true
	p.Activate()
	p.AddCards([]*Card{NewCard(RankSix, Hearts)}, Spades)
	p.pickCard(0)

	p.ResetRoundState()
	assert.Equal(t, RoleNone, p.Role)
	assert.False(t, p.CompletedAttack)
	assert.False(t, p.TransferMode)
	assert.False(t, p.IsActive())
	assert.Empty(t, p.discard)
}

func TestPlayerAddCardsResetsTableState(t *testing.T) {
	p := NewPlayer("erin", false)
	c := NewCard(RankJack, Diamonds)
	c.Open().Sling().Cover()
	p.AddCards([]*Card{c}, Spades)

	got := p.CardAt(0)
	require.NotNil(t, got)
	assert.False(t, got.Slung)
	assert.False(t, got.Covered)
}
