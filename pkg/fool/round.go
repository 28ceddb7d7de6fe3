package fool

import "fmt"

// eliminate takes a player out of play with the standard score: the count of
// in-game players at the instant of elimination. First out of a 4-player
// game scores 4, the next 3, and the sole survivor 1.
func (g *Game) eliminate(p *Player) {
	g.eliminateWithScore(p, g.ring.InGameCount())
}

func (g *Game) eliminateWithScore(p *Player, score int) {
	if p.Left {
		return
	}
	p.Left = true
	p.Score = score
	g.eliminated = append(g.eliminated, p)
	g.log.Debugf("game %s: player %s out with score %d", g.cfg.RoomID, p.ID, score)
}

// resolveRound closes the trick and arms the next round, folding the new
// state into res for the caller.
func (g *Game) resolveRound(res *PlayResult) (*PlayResult, error) {
	res.RoundEnded = true
	over, err := g.newRound()
	if err != nil {
		return nil, err
	}
	if over {
		res.GameOver = true
		res.NextPlayerID = ""
		return res, nil
	}
	res.NextPlayerID = g.current.ID
	return res, nil
}

// newRound deals replacements, runs eliminations, hands the table to the
// taker (or to the discard pile after a successful defense) and seats the
// next round's roles. Returns true when the game ended instead.
func (g *Game) newRound() (bool, error) {
	g.lifecycle.SetState(gameStateResolving)

	taker := g.taker
	defenderBefore := g.defender
	currentBefore := g.current
	g.round++

	// Replacement draw in seat order, taker last: the revealed trump at the
	// bottom of the deck goes to whoever draws it last.
	for _, p := range g.ring.Seats() {
		if taker != nil && p.ID == taker.ID {
			continue
		}
		if p.InGame() {
			g.dealTo(p)
		}
	}
	if taker != nil {
		g.dealTo(taker)
	}

	// With the deck empty, anyone whose hand stayed empty leaves the game.
	// The taker is exempt: the table is about to land in their hand. Every
	// player eliminated in this pass shares the same snapshot score.
	if g.deck.Size() == 0 {
		score := g.ring.InGameCount()
		for _, p := range g.ring.Seats() {
			if !p.InGame() || p.HandSize() > 0 {
				continue
			}
			if taker != nil && p.ID == taker.ID {
				continue
			}
			g.eliminateWithScore(p, score)
		}
	}

	takerID := ""
	if taker != nil {
		takerID = taker.ID
		taker.AddCards(g.table.Clear(), g.trump)
	} else {
		for _, c := range g.table.Clear() {
			g.out = append(g.out, c.Reset().Close())
		}
	}

	for _, p := range g.ring.Seats() {
		p.ResetRoundState()
	}
	g.taker = nil
	g.attackers = nil
	g.prevAttackerID = ""
	g.current = nil
	g.defender = nil

	if g.ring.InGameCount() <= 1 {
		for _, p := range g.ring.Seats() {
			if p.InGame() {
				g.eliminateWithScore(p, 1)
			}
		}
		g.finishGame()
		return true, nil
	}

	// The defender of a beaten-off trick leads the next one. After a take
	// the turn passes over the taker's head. A hard-removed leader falls
	// back to their old seat neighborhood.
	var newCurrent *Player
	var err error
	switch {
	case taker != nil:
		newCurrent, err = g.ring.Next(taker)
	case defenderBefore != nil && defenderBefore.InGame():
		newCurrent = defenderBefore
	case defenderBefore != nil:
		newCurrent, err = g.ring.Next(defenderBefore)
	case currentBefore != nil:
		newCurrent, err = g.ring.Next(currentBefore)
	default:
		err = ErrNoPlayersInGame
	}
	if err != nil {
		return false, fmt.Errorf("%w: next round leader: %v", ErrInvariant, err)
	}

	newDefender, err := g.ring.Next(newCurrent)
	if err != nil {
		return false, fmt.Errorf("%w: next round defender: %v", ErrInvariant, err)
	}

	g.setCurrent(newCurrent)
	g.setDefender(newDefender)
	g.setAttackers()
	g.lifecycle.SetState(gameStateActive)

	g.eventManager.PublishEvent(EventRoundEnded, g.cfg.RoomID, RoundEndedPayload{
		TakerID:        takerID,
		ActivePlayerID: newCurrent.ID,
		DeckCount:      g.deck.Size(),
	})
	g.publishRoundStarted()
	g.publishScores()

	return false, nil
}

// finishGame closes out the lifecycle. Players removed for disconnecting
// rank below every fool: the most recently removed scores -1, the one before
// -2, and so on.
func (g *Game) finishGame() {
	if g.isOver() {
		return
	}
	total := len(g.removed)
	for i, loser := range g.removed {
		loser.Score = -(total - i)
	}
	g.lifecycle.SetState(gameStateOver)

	scores := g.scores()
	g.log.Infof("game %s over after %d rounds: %v", g.cfg.RoomID, g.round, scores)

	g.eventManager.PublishEvent(EventScoresUpdated, g.cfg.RoomID, ScoresUpdatedPayload{Scores: scores})
	g.eventManager.PublishEvent(EventGameOver, g.cfg.RoomID, GameOverPayload{FinalScores: scores})
}

func (g *Game) isOver() bool {
	return g.lifecycle.Is(gameStateOver)
}

func (g *Game) publishRoundStarted() {
	payload := RoundStartedPayload{
		Round:          g.round,
		ActivePlayerID: g.current.ID,
		DefenderID:     g.defender.ID,
		DeckCount:      g.deck.Size(),
		HandCounts:     g.handCounts(),
		Trump:          g.trump,
	}
	if g.round == 1 {
		payload.TrumpCard = g.trumpCard
	}
	g.eventManager.PublishEvent(EventRoundStarted, g.cfg.RoomID, payload)
}

func (g *Game) publishScores() {
	g.eventManager.PublishEvent(EventScoresUpdated, g.cfg.RoomID, ScoresUpdatedPayload{
		Scores: g.scores(),
	})
}

func (g *Game) scores() map[string]int {
	scores := make(map[string]int, len(g.players))
	for id, p := range g.players {
		scores[id] = p.Score
	}
	return scores
}

func (g *Game) handCounts() map[string]int {
	counts := make(map[string]int, g.ring.Len())
	for _, p := range g.ring.Seats() {
		if p.InGame() {
			counts[p.ID] = p.HandSize()
		}
	}
	return counts
}

// Snapshot accessors. All take the read lock; none of them mutate.

// Started reports whether the game has been started.
func (g *Game) Started() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.started
}

// IsOver reports whether the game has finished.
func (g *Game) IsOver() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isOver()
}

// Round returns the current round number (1-based).
func (g *Game) Round() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.round
}

// Trump returns the session trump suit.
func (g *Game) Trump() Suit {
	return g.trump
}

// TrumpCard returns the revealed bottom card that fixed the trump suit.
func (g *Game) TrumpCard() *Card {
	return g.trumpCard
}

// DeckCount returns the number of cards left in the draw pile.
func (g *Game) DeckCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.deck.Size()
}

// CurrentPlayerID returns the id of the player expected to act, or "".
func (g *Game) CurrentPlayerID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return ""
	}
	return g.current.ID
}

// DefenderID returns the current defender's id, or "".
func (g *Game) DefenderID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.defender == nil {
		return ""
	}
	return g.defender.ID
}

// TakerID returns the id of the defender who took this round, or "".
func (g *Game) TakerID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.taker == nil {
		return ""
	}
	return g.taker.ID
}

// CurrentIsRobot reports whether a robot is expected to act and its id.
func (g *Game) CurrentIsRobot() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil || g.isOver() {
		return "", false
	}
	return g.current.ID, g.current.IsRobot
}

// Player returns the player with the given id, or nil.
func (g *Game) Player(id string) *Player {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.players[id]
}

// PlayerHand returns a copy of the given player's hand.
func (g *Game) PlayerHand(id string) []*Card {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.players[id]
	if !ok {
		return nil
	}
	return p.Hand()
}

// PlayerIDs returns the ids of all registered players in join order.
func (g *Game) PlayerIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.players))
	for _, id := range g.queue {
		ids = append(ids, id)
	}
	for id := range g.players {
		found := false
		for _, qid := range g.queue {
			if qid == id {
				found = true
				break
			}
		}
		if !found {
			ids = append(ids, id)
		}
	}
	return ids
}

// HandCounts returns the hand size of every in-game player.
func (g *Game) HandCounts() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.ring == nil {
		return map[string]int{}
	}
	return g.handCounts()
}

// Scores returns the score of every registered player.
func (g *Game) Scores() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scores()
}

// CountPlayersInGame returns how many seated players are still in play.
func (g *Game) CountPlayersInGame() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.ring == nil {
		return 0
	}
	return g.ring.InGameCount()
}

// TableCards returns the cards on the table in play order.
func (g *Game) TableCards() []*Card {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cards := g.table.Cards()
	out := make([]*Card, len(cards))
	copy(out, cards)
	return out
}

// StateString names the current lifecycle state for logs and status output.
func (g *Game) StateString() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch {
	case g.lifecycle.Is(gameStateDealing):
		return "dealing"
	case g.lifecycle.Is(gameStateActive):
		return "active"
	case g.lifecycle.Is(gameStateResolving):
		return "resolving"
	default:
		return "over"
	}
}
