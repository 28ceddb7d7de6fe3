package fool

// Role is the single per-player role tag. A player holds exactly one role
// while a round is active; illegal combinations are unrepresentable.
type Role int

const (
	RoleNone Role = iota
	RoleAttacker
	RoleDefender
	RoleTaker
)

func (r Role) String() string {
	switch r {
	case RoleAttacker:
		return "attacker"
	case RoleDefender:
		return "defender"
	case RoleTaker:
		return "taker"
	default:
		return "none"
	}
}

// Player holds per-seat state: hand, role, turn-order seat, elimination and
// connection status, and the running score.
type Player struct {
	ID      string
	IsRobot bool

	// Seat is the stable seating index assigned when the game starts. It
	// does not change when neighbors drop out of play.
	Seat int

	Role            Role
	CompletedAttack bool
	TransferMode    bool

	Online bool
	Left   bool
	Score  int

	hand       []*Card
	discard    []*Card // cards played this round
	startCards int
	active     bool
}

// NewPlayer creates a player that still needs to be seated and set online.
func NewPlayer(id string, isRobot bool) *Player {
	return &Player{
		ID:         id,
		IsRobot:    isRobot,
		Seat:       -1,
		startCards: defaultStartCards,
	}
}

// InGame reports whether the player still participates in turn traversal.
func (p *Player) InGame() bool {
	return !p.Left && p.Online
}

// HandSize returns the number of cards in hand.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// Hand returns a copy of the player's hand in its current sorted order.
func (p *Player) Hand() []*Card {
	out := make([]*Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// CardAt returns the card at the given hand index, or nil if out of range.
func (p *Player) CardAt(index int) *Card {
	if index < 0 || index >= len(p.hand) {
		return nil
	}
	return p.hand[index]
}

// pickCard removes the card at index from the hand and records it in the
// round discard. Callers must have validated the index.
func (p *Player) pickCard(index int) *Card {
	card := p.hand[index]
	p.hand = append(p.hand[:index], p.hand[index+1:]...)
	p.discard = append(p.discard, card)
	return card
}

// AddCards appends cards to the hand, clearing any table state they carry,
// and re-sorts the hand against the trump suit.
func (p *Player) AddCards(cards []*Card, trump Suit) {
	for _, card := range cards {
		card.Reset()
		p.hand = append(p.hand, card)
	}
	sortHand(p.hand, trump)
}

// NeedCards returns how many cards the player should draw to refill to the
// starting hand size. A taker's discard counts against the refill: those
// cards are on the table and about to come back to them.
func (p *Player) NeedCards() int {
	dropped := 0
	if p.Role == RoleTaker {
		dropped = len(p.discard)
	}
	need := p.startCards - (len(p.hand) + dropped)
	if need < 0 {
		return 0
	}
	return need
}

// CanPlayCard reports whether the player may play the card at index right now.
func (p *Player) CanPlayCard(index int) bool {
	card := p.CardAt(index)
	return card != nil && p.active && !p.Left && !card.FaceDown
}

// Activate marks the player as the one expected to act.
func (p *Player) Activate() {
	p.active = true
}

// Deactivate clears the acting flag.
func (p *Player) Deactivate() {
	p.active = false
}

// IsActive reports whether the player is expected to act.
func (p *Player) IsActive() bool {
	return p.active
}

// ResetRoundState clears everything scoped to a single round.
func (p *Player) ResetRoundState() {
	p.active = false
	p.Role = RoleNone
	p.CompletedAttack = false
	p.TransferMode = false
	p.discard = nil
}
