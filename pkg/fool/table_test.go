package fool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCanAttack(t *testing.T) {
	table := NewTable(Spades)
	assert.True(t, table.CanAttack(NewCard(RankSix, Hearts)), "empty trick accepts anything")

	table.PlaceAttack(NewCard(RankSix, Hearts))
	assert.True(t, table.CanAttack(NewCard(RankSix, Clubs)))
	assert.False(t, table.CanAttack(NewCard(RankSeven, Hearts)))

	// Cover ranks open attacking ranks too.
	table.PlaceCover(NewCard(RankTen, Hearts))
	assert.True(t, table.CanAttack(NewCard(RankTen, Diamonds)))
}

func TestTableCanCover(t *testing.T) {
	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankTen, Hearts))

	assert.True(t, table.CanCover(NewCard(RankJack, Hearts)), "same suit higher rank")
	assert.False(t, table.CanCover(NewCard(RankNine, Hearts)), "same suit lower rank")
	assert.False(t, table.CanCover(NewCard(RankTen, Hearts)), "equal rank never covers")
	assert.False(t, table.CanCover(NewCard(RankAce, Clubs)), "off suit non-trump")
	assert.True(t, table.CanCover(NewCard(RankSix, Spades)), "any trump beats a non-trump")
}

func TestTableCoverTrumpOnTrump(t *testing.T) {
	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankTen, Spades))

	assert.True(t, table.CanCover(NewCard(RankJack, Spades)))
	assert.False(t, table.CanCover(NewCard(RankSix, Spades)), "lower trump loses to trump")
	assert.False(t, table.CanCover(NewCard(RankAce, Hearts)), "non-trump never beats trump")
}

func TestTableCoverEqualRankTrump(t *testing.T) {
	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankSix, Hearts))

	// The six of trumps covers the six of hearts even though its rank is
	// not higher.
	assert.True(t, table.CanCover(NewCard(RankSix, Spades)))
}

func TestTableCoverTransitiveWithinSuit(t *testing.T) {
	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankEight, Hearts))

	for rank := RankSix; rank <= RankAce; rank++ {
		got := table.CanCover(NewCard(rank, Hearts))
		assert.Equal(t, rank > RankEight, got, "rank %d", rank)
	}
}

func TestTableCoverTargetsFirstUncovered(t *testing.T) {
	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankSix, Hearts))
	table.PlaceAttack(NewCard(RankSix, Diamonds))
	require.Equal(t, 2, table.UncoveredCount())

	first := table.FirstUncovered()
	require.Equal(t, Hearts, first.Suit)

	table.PlaceCover(NewCard(RankSeven, Hearts))
	assert.True(t, first.Covered, "target marked covered")
	assert.Equal(t, 1, table.UncoveredCount())
	assert.Equal(t, Diamonds, table.FirstUncovered().Suit)

	table.PlaceCover(NewCard(RankSeven, Diamonds))
	assert.Equal(t, 0, table.UncoveredCount())
	assert.Nil(t, table.FirstUncovered())
}

func TestTableCanTransfer(t *testing.T) {
	table := NewTable(Spades)
	assert.False(t, table.CanTransfer(NewCard(RankSix, Clubs), false), "empty table")

	table.PlaceAttack(NewCard(RankSix, Hearts))
	assert.True(t, table.CanTransfer(NewCard(RankSix, Clubs), false))
	assert.False(t, table.CanTransfer(NewCard(RankSix, Clubs), true), "no transfer in round one")
	assert.False(t, table.CanTransfer(NewCard(RankSeven, Clubs), false), "rank must match")

	table.PlaceCover(NewCard(RankSeven, Hearts))
	assert.False(t, table.CanTransfer(NewCard(RankSix, Clubs), false), "no transfer after a cover")
}

func TestTableLimitReached(t *testing.T) {
	defender := NewPlayer("d", false)
	defender.Online = true
	defender.AddCards([]*Card{
		NewCard(RankSix, Hearts),
		NewCard(RankSeven, Hearts),
		NewCard(RankEight, Hearts),
		NewCard(RankNine, Hearts),
		NewCard(RankTen, Hearts),
		NewCard(RankJack, Hearts),
	}, Spades)

	table := NewTable(Spades)
	for _, rank := range []int{RankSix, RankSeven, RankEight, RankNine} {
		table.PlaceAttack(NewCard(rank, Clubs))
	}
	assert.False(t, table.LimitReached(defender, defaultFirstRoundLimit))

	table.PlaceAttack(NewCard(RankTen, Clubs))
	assert.True(t, table.LimitReached(defender, defaultFirstRoundLimit), "first round caps at 5")
	assert.False(t, table.LimitReached(defender, defaultRoundLimit))

	table.PlaceAttack(NewCard(RankJack, Clubs))
	assert.True(t, table.LimitReached(defender, defaultRoundLimit))
}

func TestTableLimitCappedByDefenderHand(t *testing.T) {
	defender := NewPlayer("d", false)
	defender.Online = true
	defender.AddCards([]*Card{
		NewCard(RankAce, Hearts),
		NewCard(RankAce, Diamonds),
	}, Spades)

	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankSix, Clubs))
	assert.False(t, table.LimitReached(defender, defaultRoundLimit))
	table.PlaceAttack(NewCard(RankSix, Diamonds))
	assert.True(t, table.LimitReached(defender, defaultRoundLimit), "two cards hand caps the trick at two")

	// Covers played by the defender come back to them on a take, so they
	// keep counting toward capacity: hand 1 plus one outstanding cover
	// still admits a second attack, and no more.
	table.Clear()
	table.PlaceAttack(NewCard(RankSix, Clubs))
	table.PlaceCover(NewCard(RankSeven, Clubs))
	defender.pickCard(0)
	assert.False(t, table.LimitReached(defender, defaultRoundLimit))
	table.PlaceAttack(NewCard(RankSeven, Diamonds))
	assert.True(t, table.LimitReached(defender, defaultRoundLimit))
}

func TestTableClear(t *testing.T) {
	table := NewTable(Spades)
	table.PlaceAttack(NewCard(RankSix, Hearts))
	table.PlaceCover(NewCard(RankSeven, Hearts))

	cards := table.Clear()
	assert.Len(t, cards, 2)
	assert.True(t, table.IsEmpty())
	assert.True(t, table.CanAttack(NewCard(RankAce, Clubs)), "allowed ranks reset")
}
