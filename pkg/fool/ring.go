package fool

import "errors"

// ErrNoPlayersInGame is returned by ring traversal when no seated player is
// in game. Callers treat it as an invariant violation: round resolution
// checks the in-game count before traversing, so traversal must always find
// someone.
var ErrNoPlayersInGame = errors.New("fool: no players in game")

// TurnRing provides circular traversal over the seated players in shuffle
// order, skipping players that are not currently in game. Seat numbers stay
// stable as neighbors are eliminated; a hard-removed player loses its seat
// entry but the remaining seat numbers do not shift.
type TurnRing struct {
	seats []*Player
}

// NewTurnRing seats the given players in order, assigning stable seat numbers.
func NewTurnRing(players []*Player) *TurnRing {
	r := &TurnRing{seats: make([]*Player, 0, len(players))}
	for i, p := range players {
		p.Seat = i
		r.seats = append(r.seats, p)
	}
	return r
}

// Seats returns the seating order. The slice must not be mutated.
func (r *TurnRing) Seats() []*Player {
	return r.seats
}

// Len returns the number of occupied seats.
func (r *TurnRing) Len() int {
	return len(r.seats)
}

// ByIndex resolves a stable seat number to its occupant, or nil if the seat
// was hard-removed.
func (r *TurnRing) ByIndex(seat int) *Player {
	for _, p := range r.seats {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// position finds the slice position of the given player, or -1.
func (r *TurnRing) position(player *Player) int {
	for i, p := range r.seats {
		if p.ID == player.ID {
			return i
		}
	}
	return -1
}

// Next returns the next in-game player after the given one, wrapping past
// the last seat. The scan is bounded by the seat count: if it comes all the
// way around without finding anyone in game, ErrNoPlayersInGame is returned
// instead of recursing.
func (r *TurnRing) Next(player *Player) (*Player, error) {
	return r.scan(player, 1)
}

// Previous is the mirror traversal of Next.
func (r *TurnRing) Previous(player *Player) (*Player, error) {
	return r.scan(player, -1)
}

func (r *TurnRing) scan(player *Player, step int) (*Player, error) {
	n := len(r.seats)
	if n == 0 {
		return nil, ErrNoPlayersInGame
	}

	pos := r.position(player)
	if pos < 0 {
		// Player was hard-removed; fall back to scanning from its old
		// seat neighborhood so traversal still terminates.
		pos = player.Seat % n
		if pos < 0 {
			pos = 0
		}
	}

	for i := 1; i <= n; i++ {
		candidate := r.seats[((pos+i*step)%n+n)%n]
		if candidate.InGame() {
			return candidate, nil
		}
	}
	return nil, ErrNoPlayersInGame
}

// Remove drops a player's seat entry entirely (hard delete). Remaining seat
// numbers are untouched.
func (r *TurnRing) Remove(playerID string) bool {
	for i, p := range r.seats {
		if p.ID == playerID {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			return true
		}
	}
	return false
}

// InGameCount returns the number of seated players currently in game.
func (r *TurnRing) InGameCount() int {
	count := 0
	for _, p := range r.seats {
		if p.InGame() {
			count++
		}
	}
	return count
}
