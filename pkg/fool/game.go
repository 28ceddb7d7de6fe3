package fool

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/foolgame/foolserver/pkg/statemachine"
)

const (
	defaultStartCards      = 6
	defaultFirstRoundLimit = 5
	defaultRoundLimit      = 6
)

// ErrInvariant marks a corrupt game state (no in-game players found during
// traversal, broken role assignment). It is fatal for the room: the host must
// tear the game down rather than retry.
var ErrInvariant = errors.New("fool: invariant violation")

// GameConfig holds configuration for a new game
type GameConfig struct {
	RoomID          string
	Log             slog.Logger
	StartCards      int
	FirstRoundLimit int
	RoundLimit      int
	Seed            int64 // Optional seed for deterministic games
}

// GameStateFn represents a game lifecycle state function
type GameStateFn = statemachine.StateFn[Game]

// Lifecycle state functions. Each round moves Dealing -> Active -> Resolving
// and back to Active (or to Over).
func gameStateDealing(g *Game) GameStateFn   { return gameStateDealing }
func gameStateActive(g *Game) GameStateFn    { return gameStateActive }
func gameStateResolving(g *Game) GameStateFn { return gameStateResolving }
func gameStateOver(g *Game) GameStateFn      { return nil }

// PlayAction identifies how a played card landed on the table.
type PlayAction string

const (
	ActionSlung    PlayAction = "slung"
	ActionCover    PlayAction = "cover"
	ActionTransfer PlayAction = "transfer"
)

// PlayResult reports the outcome of an inbound action. Illegal moves come
// back with Accepted=false and no state change; they are not errors.
type PlayResult struct {
	Accepted     bool
	Reason       string
	Action       PlayAction
	Card         *Card
	NextPlayerID string
	TookCards    bool
	RoundEnded   bool
	GameOver     bool
}

func reject(reason string) *PlayResult {
	return &PlayResult{Reason: reason}
}

// Game is the rule engine and turn-state machine for one room. It is safe
// for concurrent use; the host serializes mutations per room.
type Game struct {
	cfg GameConfig
	log slog.Logger
	rng *rand.Rand

	deck      *Deck
	trump     Suit
	trumpCard *Card
	table     *Table
	out       []*Card

	players map[string]*Player
	queue   []string // join order before seating is shuffled
	ring    *TurnRing

	round   int
	started bool

	current  *Player
	defender *Player
	taker    *Player

	attackers      []string // ids that attacked this round, in attack order
	prevAttackerID string

	eliminated []*Player // players who emptied their hands, in order
	removed    []*Player // players soft-removed for disconnect, in order

	lifecycle    *statemachine.StateMachine[Game]
	eventManager *EventManager

	mu sync.RWMutex
}

// NewGame creates a game with a shuffled deck and the trump fixed from the
// bottom card. Players join afterwards; Start seats them.
func NewGame(cfg GameConfig) *Game {
	if cfg.StartCards == 0 {
		cfg.StartCards = defaultStartCards
	}
	if cfg.FirstRoundLimit == 0 {
		cfg.FirstRoundLimit = defaultFirstRoundLimit
	}
	if cfg.RoundLimit == 0 {
		cfg.RoundLimit = defaultRoundLimit
	}
	if cfg.Log == nil {
		cfg.Log = slog.Disabled
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		cfg:          cfg,
		log:          cfg.Log,
		rng:          rng,
		deck:         NewDeck(rng),
		players:      make(map[string]*Player),
		eventManager: &EventManager{},
	}

	g.trumpCard = g.deck.Bottom().Open()
	g.trump = g.trumpCard.Suit
	g.table = NewTable(g.trump)
	g.lifecycle = statemachine.NewStateMachine(g, gameStateDealing)

	return g
}

// SetEventChannel sets the channel engine events are published to.
func (g *Game) SetEventChannel(ch chan<- Event) {
	g.eventManager.SetEventChannel(ch)
}

// AddPlayer registers a seatless player, or returns the existing one.
func (g *Game) AddPlayer(id string, isRobot bool) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.players[id]; ok {
		return p
	}
	p := NewPlayer(id, isRobot)
	p.startCards = g.cfg.StartCards
	g.players[id] = p
	g.queue = append(g.queue, id)
	return p
}

// SetPlayerOnline marks a player connected.
func (g *Game) SetPlayerOnline(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		p.Online = true
	}
}

// RemovePlayer handles a player leaving. A hard delete removes the seat from
// the turn order entirely; a soft delete keeps the seat for scoring and adds
// the player to the removed list. Returns true when the game just ended
// because too few connected players remain.
func (g *Game) RemovePlayer(id string, hardDelete bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return false
	}
	p.Online = false

	if hardDelete {
		for i, qid := range g.queue {
			if qid == id {
				g.queue = append(g.queue[:i], g.queue[i+1:]...)
				break
			}
		}
		if g.ring != nil {
			g.ring.Remove(id)
		}
	} else {
		already := false
		for _, r := range g.removed {
			if r.ID == id {
				already = true
				break
			}
		}
		if !already {
			g.removed = append(g.removed, p)
		}
	}

	if g.started && !g.isOver() && g.countOnline() <= 1 {
		g.finishGame()
		return true
	}
	return false
}

func (g *Game) countOnline() int {
	count := 0
	for _, p := range g.players {
		if p.Online && !p.Left {
			count++
		}
	}
	return count
}

// Start shuffles the seating, deals the opening hands, picks the first
// attacker (lowest trump in hand, random if no trump was dealt) and arms
// round 1.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return fmt.Errorf("game already started")
	}

	seated := make([]*Player, 0, len(g.queue))
	for _, id := range g.queue {
		if p := g.players[id]; p != nil && p.Online {
			seated = append(seated, p)
		}
	}
	if len(seated) < 2 {
		return fmt.Errorf("need at least 2 connected players, have %d", len(seated))
	}

	g.rng.Shuffle(len(seated), func(i, j int) {
		seated[i], seated[j] = seated[j], seated[i]
	})
	g.ring = NewTurnRing(seated)

	for _, p := range g.ring.Seats() {
		g.dealTo(p)
	}

	first := g.lowestTrumpHolder()
	if first == nil {
		first = seated[g.rng.Intn(len(seated))]
	}
	defender, err := g.ring.Next(first)
	if err != nil {
		return fmt.Errorf("%w: seating first defender: %v", ErrInvariant, err)
	}

	g.round = 1
	g.started = true
	g.setCurrent(first)
	g.setDefender(defender)
	g.setAttackers()
	g.lifecycle.SetState(gameStateActive)

	g.log.Infof("game %s started: %d players, trump %s, first attacker %s",
		g.cfg.RoomID, len(seated), g.trumpCard, first.ID)

	g.publishRoundStarted()
	return nil
}

// dealTo refills a player's hand from the deck up to the starting count.
func (g *Game) dealTo(p *Player) {
	if g.deck.Size() == 0 {
		return
	}
	if need := p.NeedCards(); need > 0 {
		p.AddCards(g.deck.Draw(need), g.trump)
	}
}

// lowestTrumpHolder returns the seated player holding the lowest trump, or
// nil when no trump was dealt.
func (g *Game) lowestTrumpHolder() *Player {
	var holder *Player
	lowest := RankAce + 1
	for _, p := range g.ring.Seats() {
		for _, c := range p.Hand() {
			if c.Suit == g.trump && c.Rank < lowest {
				lowest = c.Rank
				holder = p
			}
		}
	}
	return holder
}

func (g *Game) setCurrent(p *Player) {
	if g.current != nil && g.current != p {
		g.current.Deactivate()
	}
	if p != nil {
		p.Activate()
	}
	g.current = p
}

func (g *Game) setDefender(p *Player) {
	p.Role = RoleDefender
	p.CompletedAttack = false
	g.defender = p
}

// setAttackers makes every in-game player other than the defender an
// attacker.
func (g *Game) setAttackers() {
	for _, p := range g.ring.Seats() {
		if p.InGame() && p.ID != g.defender.ID {
			p.Role = RoleAttacker
		}
	}
}

// promoteToTaker marks the defender as having taken. Attackers get their
// completed flags cleared so they may pile on more cards.
func (g *Game) promoteToTaker(p *Player) {
	p.Role = RoleTaker
	g.taker = p
	for _, other := range g.ring.Seats() {
		if other.Role == RoleAttacker {
			other.CompletedAttack = false
		}
	}
}

func (g *Game) roundLimit() int {
	if g.round == 1 {
		return g.cfg.FirstRoundLimit
	}
	return g.cfg.RoundLimit
}

// PlayCard attempts an attack, cover or transfer with the card at the given
// hand index. Illegal moves are rejected without side effects.
func (g *Game) PlayCard(playerID string, cardIndex int) (*PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || g.isOver() {
		return reject("game is not active"), nil
	}
	p, ok := g.players[playerID]
	if !ok {
		return reject("unknown player"), nil
	}
	if g.current == nil || g.current.ID != p.ID {
		return reject("not your turn"), nil
	}
	if !p.CanPlayCard(cardIndex) {
		return reject("card not playable"), nil
	}
	card := p.CardAt(cardIndex)

	var action PlayAction
	switch p.Role {
	case RoleAttacker:
		if !g.table.CanAttack(card) {
			return reject("rank not on the table"), nil
		}
		action = ActionSlung
	case RoleDefender:
		if p.TransferMode {
			if !g.table.CanTransfer(card, g.round == 1) {
				return reject("transfer not allowed"), nil
			}
			action = ActionTransfer
		} else {
			if !g.table.CanCover(card) {
				return reject("card does not cover"), nil
			}
			action = ActionCover
		}
	default:
		return reject("no role to play"), nil
	}

	return g.applyPlay(p, cardIndex, action)
}

// applyPlay mutates state for a validated play and runs the round-end
// predicates. Caller holds the lock.
func (g *Game) applyPlay(p *Player, cardIndex int, action PlayAction) (*PlayResult, error) {
	card := p.pickCard(cardIndex)

	var next *Player
	var err error

	switch action {
	case ActionTransfer:
		next, err = g.ring.Next(p)
		if err != nil {
			return nil, fmt.Errorf("%w: transfer target: %v", ErrInvariant, err)
		}
		g.table.PlaceTransfer(card)
		g.setDefender(next)
		g.setAttackers() // the transferring player becomes an attacker
		p.TransferMode = false

	case ActionSlung:
		g.prevAttackerID = p.ID
		g.table.PlaceAttack(card)
		if !g.attackedThisRound(p.ID) {
			g.attackers = append(g.attackers, p.ID)
		}
		if p.HandSize() == 0 {
			p.CompletedAttack = true
		}
		next = g.defender
		if next != nil && next.Role == RoleTaker {
			// Defender already took; turn stays with the attackers.
			taker := next
			if p.CompletedAttack {
				next = g.nextAttacker(p)
				if next == nil {
					next, err = g.ring.Next(taker)
					if err != nil {
						return nil, fmt.Errorf("%w: after taker: %v", ErrInvariant, err)
					}
				}
			} else {
				next = p
			}
		}

	case ActionCover:
		g.table.PlaceCover(card)
		if g.table.UncoveredCount() > 0 {
			// More attacks outstanding: the defender keeps covering.
			next = p
		} else {
			next = g.previousAttacker(p)
			if next == nil {
				next = p
			}
		}
	}

	p.Deactivate()
	g.setCurrent(next)

	g.eventManager.PublishEvent(EventCardPlayed, g.cfg.RoomID, CardPlayedPayload{
		PlayerID:     p.ID,
		Card:         card,
		Action:       string(action),
		NextPlayerID: next.ID,
	})

	res := &PlayResult{
		Accepted:     true,
		Action:       action,
		Card:         card,
		NextPlayerID: next.ID,
	}

	// Out of cards with an empty deck: elimination and endgame checks.
	if g.deck.Size() == 0 && p.HandSize() == 0 {
		n := g.ring.InGameCount()

		if n == 2 {
			if next.HandSize() == 1 && next.Role == RoleDefender {
				// Two-player endgame carve-out: the last card may
				// still be legitimately defended, so resolution is
				// deferred one more turn.
				g.setCurrent(next)
				res.NextPlayerID = next.ID
				return res, nil
			}
			if next.HandSize() == 0 && next.ID != p.ID {
				// Both emptied on the same play: a draw.
				g.eliminateWithScore(p, 0)
				g.eliminateWithScore(next, 0)
				g.finishGame()
				res.GameOver = true
				return res, nil
			}
		}

		g.eliminate(p)
		g.publishScores()

		if n == 2 {
			if next.ID != p.ID {
				g.eliminate(next)
			} else if opp, err := g.ring.Next(p); err == nil && opp.ID != p.ID {
				// A defender shedding their last card while attacks remain
				// uncovered keeps the turn, so the opponent is resolved
				// through the ring. Nobody was fooled on this ending.
				g.eliminateWithScore(opp, 0)
			}
			g.finishGame()
			res.GameOver = true
			return res, nil
		}
		if p.Role == RoleDefender {
			// Defender went out on their last cover; the trick is done.
			return g.resolveRound(res)
		}
	}

	// Defender round-end: limit reached or nobody left to hand the turn to,
	// and every table card answered.
	if p.Role == RoleDefender &&
		(g.table.LimitReached(p, g.roundLimit()) || next.ID == p.ID) {
		if g.table.UncoveredCount() == 0 {
			return g.resolveRound(res)
		}
		return res, nil
	}

	// Attacker piling onto a taker: close the trick once the taker's
	// capacity is exhausted.
	if action == ActionSlung && g.taker != nil &&
		g.table.LimitReached(g.taker, g.roundLimit()) {
		return g.resolveRound(res)
	}

	return res, nil
}

func (g *Game) attackedThisRound(id string) bool {
	for _, a := range g.attackers {
		if a == id {
			return true
		}
	}
	return false
}

// previousAttacker returns the attacker who slung most recently, or a
// fallback attacker who can still act, or nil.
func (g *Game) previousAttacker(from *Player) *Player {
	if g.prevAttackerID == "" {
		return nil
	}
	prev := g.players[g.prevAttackerID]
	if prev != nil && prev.InGame() {
		return prev
	}
	if prev == nil {
		prev = from
	}
	return g.nextAttacker(prev)
}

// nextAttacker returns the next in-game attacker after the given player who
// has not completed their attack, or nil when none remain. The scan is
// bounded by the seat count.
func (g *Game) nextAttacker(from *Player) *Player {
	p := from
	for i := 0; i < g.ring.Len(); i++ {
		next, err := g.ring.Next(p)
		if err != nil {
			return nil
		}
		if next.Role == RoleAttacker && next.InGame() && !next.CompletedAttack {
			return next
		}
		if next.ID == from.ID {
			return nil
		}
		p = next
	}
	return nil
}

// PassOrTake is the explicit form of a turn skip: an attacker passes, a
// defender takes every card on the table.
func (g *Game) PassOrTake(playerID string) (*PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || g.isOver() {
		return reject("game is not active"), nil
	}
	p, ok := g.players[playerID]
	if !ok {
		return reject("unknown player"), nil
	}
	if g.current == nil || g.current.ID != p.ID {
		return reject("not your turn"), nil
	}
	return g.advanceTurn(p)
}

// HandleTurnTimeout treats an expired turn timer as an implicit pass for an
// attacker or an implicit take for a defender who has not covered.
func (g *Game) HandleTurnTimeout() (*PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || g.isOver() || g.current == nil {
		return reject("game is not active"), nil
	}
	return g.advanceTurn(g.current)
}

// advanceTurn skips the current player's turn. Caller holds the lock.
func (g *Game) advanceTurn(p *Player) (*PlayResult, error) {
	res := &PlayResult{Accepted: true}

	if _, ok := g.players[p.ID]; !ok {
		// Current player was hard-removed mid-round.
		return g.resolveRound(res)
	}
	if p.Role == RoleAttacker && len(g.attackers) == 0 {
		// Opening attacker declined to attack at all.
		return g.resolveRound(res)
	}

	p.Deactivate()

	var next *Player
	tookOver := false

	switch p.Role {
	case RoleDefender:
		g.promoteToTaker(p)
		tookOver = true

		var err error
		next, err = g.ring.Previous(p)
		if err != nil {
			return nil, fmt.Errorf("%w: previous of defender: %v", ErrInvariant, err)
		}

		n := g.ring.InGameCount()
		if g.deck.Size() == 0 && next.HandSize() == 0 && n <= 2 {
			// The only opponent is already out of cards: taking ends
			// the game, the taker is the fool.
			g.eliminateWithScore(next, n)
			g.eliminateWithScore(p, 0)
			g.finishGame()
			res.TookCards = true
			res.GameOver = true
			return res, nil
		}
		if g.table.LimitReached(p, g.roundLimit()) {
			res.TookCards = true
			return g.resolveRound(res)
		}

	case RoleAttacker:
		p.CompletedAttack = true
		next = g.nextAttacker(p)

	default:
		return g.resolveRound(res)
	}

	if next != nil {
		g.setCurrent(next)
		g.eventManager.PublishEvent(EventTurnSkipped, g.cfg.RoomID, TurnSkippedPayload{
			PlayerID:     p.ID,
			TookCards:    tookOver,
			NextPlayerID: next.ID,
		})
		res.NextPlayerID = next.ID
		res.TookCards = tookOver
		return res, nil
	}

	res.TookCards = tookOver
	return g.resolveRound(res)
}

// ToggleTransferMode arms or disarms the defender's intent to transfer on
// the next play. It only flips when a transfer could currently be legal.
func (g *Game) ToggleTransferMode(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || !g.started || g.isOver() {
		return false
	}
	if p.Role != RoleDefender || g.round == 1 {
		return false
	}
	target := g.table.FirstUncovered()
	if target == nil || g.table.HasCover() {
		return false
	}
	match := false
	for _, c := range p.Hand() {
		if c.Rank == target.Rank {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	p.TransferMode = !p.TransferMode
	return true
}
