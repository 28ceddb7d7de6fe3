package server

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/foolgame/foolserver/pkg/fool"
)

// Room hosts one game: it owns the engine, the turn timer, the robot driver
// and the notification fan-out. All engine access goes through the engine's
// own lock; the room mutex only guards host-side state.
type Room struct {
	ID  string
	log slog.Logger

	game  *fool.Game
	timer *TurnTimer
	subs  *subscriberRegistry

	db Database

	mu         sync.Mutex
	rng        *rand.Rand
	opts       Options
	persisted  bool
	closed     bool
	robotTimer *time.Timer

	events chan fool.Event
	done   chan struct{}
}

func newRoom(id string, db Database, log slog.Logger, opts Options) *Room {
	r := &Room{
		ID:     id,
		log:    log,
		db:     db,
		subs:   newSubscriberRegistry(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		opts:   opts,
		events: make(chan fool.Event, 128),
		done:   make(chan struct{}),
	}
	r.game = fool.NewGame(fool.GameConfig{
		RoomID:     id,
		Log:        log,
		StartCards: opts.StartCards,
		Seed:       opts.Seed,
	})
	r.game.SetEventChannel(r.events)
	r.timer = NewTurnTimer(opts.TurnTime, r.onTurnTimeout)

	go r.eventLoop()
	return r
}

// Game exposes the engine for read-only state queries.
func (r *Room) Game() *fool.Game {
	return r.game
}

// Subscribe registers a notification channel for this room.
func (r *Room) Subscribe() (<-chan *Notification, func()) {
	return r.subs.subscribe()
}

func (r *Room) eventLoop() {
	for {
		select {
		case ev := <-r.events:
			r.subs.broadcast(&Notification{
				Type:    ev.Type,
				RoomID:  ev.RoomID,
				Payload: ev.Payload,
			})
		case <-r.done:
			return
		}
	}
}

// Join adds a player (or robot) to a game that has not started yet.
func (r *Room) Join(playerID string, isRobot bool) error {
	if r.game.Started() {
		return fmt.Errorf("game in room %s already started", r.ID)
	}
	r.game.AddPlayer(playerID, isRobot)
	r.game.SetPlayerOnline(playerID)
	r.log.Debugf("room %s: %s joined (robot=%v)", r.ID, playerID, isRobot)
	return nil
}

// Leave handles a disconnect. Before the game starts the seat is dropped
// outright; afterwards the player is kept for scoring and ranked below every
// fool at game end.
func (r *Room) Leave(playerID string) {
	hard := !r.game.Started()
	over := r.game.RemovePlayer(playerID, hard)
	r.log.Debugf("room %s: %s left (hard=%v over=%v)", r.ID, playerID, hard, over)
	if over {
		r.finishGame()
	}
}

// Start begins the game and arms the first turn.
func (r *Room) Start() error {
	if err := r.game.Start(); err != nil {
		return err
	}
	r.armTurn()
	return nil
}

// PlayCard forwards a play to the engine and re-arms the turn on success.
func (r *Room) PlayCard(playerID string, cardIndex int) (*fool.PlayResult, error) {
	res, err := r.game.PlayCard(playerID, cardIndex)
	if err != nil {
		r.fail(err)
		return nil, err
	}
	r.afterAction(res)
	return res, nil
}

// PassOrTake forwards an explicit pass or take to the engine.
func (r *Room) PassOrTake(playerID string) (*fool.PlayResult, error) {
	res, err := r.game.PassOrTake(playerID)
	if err != nil {
		r.fail(err)
		return nil, err
	}
	r.afterAction(res)
	return res, nil
}

// ToggleTransfer flips the defender's transfer mode.
func (r *Room) ToggleTransfer(playerID string) bool {
	return r.game.ToggleTransferMode(playerID)
}

func (r *Room) onTurnTimeout() {
	if r.isClosed() {
		return
	}
	r.log.Debugf("room %s: turn timeout for %s", r.ID, r.game.CurrentPlayerID())
	res, err := r.game.HandleTurnTimeout()
	if err != nil {
		r.fail(err)
		return
	}
	r.afterAction(res)
}

// afterAction re-arms the turn machinery once the engine accepted a move.
func (r *Room) afterAction(res *fool.PlayResult) {
	if res == nil || !res.Accepted || r.isClosed() {
		return
	}
	if res.GameOver || r.game.IsOver() {
		r.finishGame()
		return
	}
	r.armTurn()
}

func (r *Room) armTurn() {
	if r.isClosed() {
		return
	}
	r.timer.Restart()
	r.maybeScheduleRobot()
}

// maybeScheduleRobot queues a robot move with a randomized humanlike delay
// when the turn landed on a robot seat. The pending timer is kept on the
// room so Close can cancel it.
func (r *Room) maybeScheduleRobot() {
	id, isRobot := r.game.CurrentIsRobot()
	if !isRobot {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	delay := r.opts.RobotDelayMin
	if span := r.opts.RobotDelayMax - r.opts.RobotDelayMin; span > 0 {
		delay += time.Duration(r.rng.Int63n(int64(span)))
	}
	if r.robotTimer != nil {
		r.robotTimer.Stop()
	}
	r.robotTimer = time.AfterFunc(delay, func() { r.robotMove(id) })
}

func (r *Room) robotMove(playerID string) {
	// The turn may have moved on (timeout, disconnect, teardown) before the
	// delay elapsed.
	if r.isClosed() || r.game.IsOver() || r.game.CurrentPlayerID() != playerID {
		return
	}

	choice := r.game.RobotChoice(playerID)

	var res *fool.PlayResult
	var err error
	if choice.CardIndex < 0 {
		res, err = r.game.PassOrTake(playerID)
	} else {
		if choice.Transfer {
			r.game.ToggleTransferMode(playerID)
		}
		res, err = r.game.PlayCard(playerID, choice.CardIndex)
		if err == nil && res != nil && !res.Accepted {
			// The advisor and the validator disagreed; fold instead of
			// stalling the room.
			r.log.Warnf("room %s: robot %s move rejected: %s", r.ID, playerID, res.Reason)
			res, err = r.game.PassOrTake(playerID)
		}
	}
	if err != nil {
		r.fail(err)
		return
	}
	r.afterAction(res)
}

// finishGame stops the turn machinery and persists the final scores once.
func (r *Room) finishGame() {
	r.timer.Stop()

	r.mu.Lock()
	if r.persisted || r.closed {
		r.mu.Unlock()
		return
	}
	r.persisted = true
	r.mu.Unlock()

	scores := make(map[string]int64)
	for id, score := range r.game.Scores() {
		scores[id] = int64(score)
	}
	if len(scores) == 0 {
		return
	}

	gameID := uuid.New().String()
	if err := r.db.RecordGameResult(gameID, r.ID, r.game.Round(), scores); err != nil {
		r.log.Errorf("room %s: failed to persist game result: %v", r.ID, err)
		return
	}
	r.log.Infof("room %s: game %s recorded, scores %v", r.ID, gameID, scores)
}

// fail tears the room down after an engine invariant violation.
func (r *Room) fail(err error) {
	r.log.Errorf("room %s: engine failure: %v", r.ID, err)
	r.Close()
}

func (r *Room) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close stops the turn and robot timers and releases subscribers. Idempotent.
func (r *Room) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.robotTimer != nil {
		r.robotTimer.Stop()
	}
	r.mu.Unlock()

	r.timer.Stop()
	close(r.done)
	r.subs.closeAll()
}
