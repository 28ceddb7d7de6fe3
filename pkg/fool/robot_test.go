package fool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotAttackLead(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankKing, Hearts), NewCard(RankNine, Clubs), NewCard(RankSeven, Spades)},
		"b": {NewCard(RankSix, Diamonds)},
	})

	// Empty trick: lead the highest non-trump, keeping trumps back.
	choice := g.RobotChoice("a")
	require.NotEqual(t, -1, choice.CardIndex)
	assert.Equal(t, RankKing, choice.Card.Rank)
	assert.Equal(t, Hearts, choice.Card.Suit)
	assert.False(t, choice.Transfer)
}

func TestRobotAttackMatchesTableRank(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankKing, Hearts), NewCard(RankNine, Clubs), NewCard(RankSix, Diamonds)},
		"b": {NewCard(RankSix, Clubs), NewCard(RankTen, Hearts)},
	})
	g.table.PlaceAttack(NewCard(RankSix, Hearts))

	choice := g.RobotChoice("a")
	require.NotEqual(t, -1, choice.CardIndex)
	assert.Equal(t, RankSix, choice.Card.Rank)

	// Nothing matches: the robot should pass.
	g.table.PlaceAttack(NewCard(RankQueen, Spades))
	g2 := testGame("x", "y")
	seatForTest(t, g2, 2, map[string][]*Card{
		"x": {NewCard(RankKing, Hearts)},
		"y": {NewCard(RankSix, Clubs)},
	})
	g2.table.PlaceAttack(NewCard(RankSix, Hearts))
	assert.Equal(t, -1, g2.RobotChoice("x").CardIndex)
}

func TestRobotCoverCheapestSameSuit(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankSix, Clubs)},
		"b": {NewCard(RankAce, Hearts), NewCard(RankNine, Hearts), NewCard(RankSeven, Spades)},
	})
	g.table.PlaceAttack(NewCard(RankEight, Hearts))

	// Nine of hearts beats the trump seven: spend the cheaper suit card.
	choice := g.RobotChoice("b")
	require.NotEqual(t, -1, choice.CardIndex)
	assert.Equal(t, RankNine, choice.Card.Rank)
	assert.Equal(t, Hearts, choice.Card.Suit)
	assert.False(t, choice.Transfer)
}

func TestRobotCoverFallsBackToTrump(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankSix, Clubs)},
		"b": {NewCard(RankSeven, Hearts), NewCard(RankKing, Spades), NewCard(RankSix, Spades)},
	})
	g.table.PlaceAttack(NewCard(RankEight, Hearts))

	choice := g.RobotChoice("b")
	require.NotEqual(t, -1, choice.CardIndex)
	assert.Equal(t, Spades, choice.Card.Suit)
	assert.Equal(t, RankSix, choice.Card.Rank, "cheapest trump wins the fallback")
}

func TestRobotCannotCoverTakes(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankSix, Clubs)},
		"b": {NewCard(RankSeven, Diamonds), NewCard(RankSix, Hearts)},
	})
	g.table.PlaceAttack(NewCard(RankTen, Hearts))

	assert.Equal(t, -1, g.RobotChoice("b").CardIndex)
}

func TestRobotLowTrumpCannotBeatTrump(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankSix, Clubs)},
		"b": {NewCard(RankSeven, Spades), NewCard(RankAce, Hearts)},
	})
	g.table.PlaceAttack(NewCard(RankTen, Spades))

	assert.Equal(t, -1, g.RobotChoice("b").CardIndex)
}

func TestRobotPrefersTransfer(t *testing.T) {
	g := testGame("a", "b", "c")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankSix, Clubs)},
		"b": {NewCard(RankEight, Clubs), NewCard(RankNine, Hearts)},
		"c": {NewCard(RankAce, Spades)},
	})
	g.table.PlaceAttack(NewCard(RankEight, Hearts))

	choice := g.RobotChoice("b")
	require.NotEqual(t, -1, choice.CardIndex)
	assert.True(t, choice.Transfer)
	assert.Equal(t, RankEight, choice.Card.Rank)
	assert.Equal(t, Clubs, choice.Card.Suit)

	// Round one forbids the transfer; the robot covers instead.
	g.round = 1
	choice = g.RobotChoice("b")
	require.NotEqual(t, -1, choice.CardIndex)
	assert.False(t, choice.Transfer)
	assert.Equal(t, RankNine, choice.Card.Rank)
}

func TestRobotChoiceDoesNotMutate(t *testing.T) {
	g := testGame("a", "b")
	seatForTest(t, g, 2, map[string][]*Card{
		"a": {NewCard(RankSix, Clubs), NewCard(RankTen, Diamonds)},
		"b": {NewCard(RankSeven, Clubs)},
	})

	before := g.players["a"].HandSize()
	g.RobotChoice("a")
	g.RobotChoice("a")
	assert.Equal(t, before, g.players["a"].HandSize())
	assert.True(t, g.table.IsEmpty())
}
