package fool

import (
	"fmt"
	"sort"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Spades   Suit = "spades"
	Clubs    Suit = "clubs"
)

// Color is the derived card color
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Rank values. A 36-card deck runs from six to ace.
const (
	RankSix   = 6
	RankSeven = 7
	RankEight = 8
	RankNine  = 9
	RankTen   = 10
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

var suits = []Suit{Hearts, Diamonds, Spades, Clubs}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Spades:   "♠",
	Clubs:    "♣",
}

var rankNames = map[int]string{
	RankSix:   "6",
	RankSeven: "7",
	RankEight: "8",
	RankNine:  "9",
	RankTen:   "10",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
	RankAce:   "A",
}

// Card is a single playing card. Rank, Suit and Color are fixed at creation;
// FaceDown, Covered and Slung track its presentation state on the table.
type Card struct {
	Rank     int   `json:"rank"`
	Suit     Suit  `json:"suit"`
	Color    Color `json:"color"`
	FaceDown bool  `json:"faceDown"`
	Covered  bool  `json:"covered"`
	Slung    bool  `json:"slung"`
}

// NewCard creates a face-down card with its color derived from the suit.
func NewCard(rank int, suit Suit) *Card {
	color := Red
	if suit == Spades || suit == Clubs {
		color = Black
	}
	return &Card{
		Rank:     rank,
		Suit:     suit,
		Color:    color,
		FaceDown: true,
	}
}

// Open turns the card face up.
func (c *Card) Open() *Card {
	c.FaceDown = false
	return c
}

// Close turns the card face down.
func (c *Card) Close() *Card {
	c.FaceDown = true
	return c
}

// Sling marks the card as played by an attacker.
func (c *Card) Sling() *Card {
	c.Slung = true
	return c
}

// Cover marks the card as resolved by a defender's cover.
func (c *Card) Cover() *Card {
	c.Covered = true
	return c
}

// Reset clears table state when the card returns to a hand or leaves play.
func (c *Card) Reset() *Card {
	c.Slung = false
	c.Covered = false
	c.FaceDown = false
	return c
}

// String returns a short representation like "Q♠".
func (c *Card) String() string {
	name, ok := rankNames[c.Rank]
	if !ok {
		name = fmt.Sprintf("%d", c.Rank)
	}
	return name + suitSymbols[c.Suit]
}

// sortHand orders cards rank-descending with trumps last, so index 0 is the
// preferred lead for an attacker.
func sortHand(cards []*Card, trump Suit) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rank > cards[j].Rank
	})
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Suit != trump && cards[j].Suit == trump
	})
}
