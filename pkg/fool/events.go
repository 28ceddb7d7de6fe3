package fool

// EventType identifies an engine notification.
type EventType string

const (
	EventRoundStarted  EventType = "round_started"
	EventCardPlayed    EventType = "card_played"
	EventTurnSkipped   EventType = "turn_skipped"
	EventRoundEnded    EventType = "round_ended"
	EventScoresUpdated EventType = "scores_updated"
	EventGameOver      EventType = "game_over"
)

// Event is an engine notification with type and payload. The engine produces
// events; the host delivers them to clients.
type Event struct {
	Type    EventType
	RoomID  string
	Payload interface{}
}

// RoundStartedPayload announces a new round (including round 1 at game start).
type RoundStartedPayload struct {
	Round          int            `json:"round"`
	ActivePlayerID string         `json:"activePlayerId"`
	DefenderID     string         `json:"defenderId"`
	DeckCount      int            `json:"deckCount"`
	HandCounts     map[string]int `json:"handCounts"`
	Trump          Suit           `json:"trump"`
	TrumpCard      *Card          `json:"trumpCard,omitempty"`
}

// CardPlayedPayload announces an accepted play.
type CardPlayedPayload struct {
	PlayerID     string `json:"playerId"`
	Card         *Card  `json:"card"`
	Action       string `json:"action"` // slung, cover or transfer
	NextPlayerID string `json:"nextPlayerId"`
}

// TurnSkippedPayload announces a pass or a take.
type TurnSkippedPayload struct {
	PlayerID     string `json:"playerId"`
	TookCards    bool   `json:"tookCards"`
	NextPlayerID string `json:"nextPlayerId"`
}

// RoundEndedPayload announces a resolved round.
type RoundEndedPayload struct {
	TakerID        string `json:"takerId,omitempty"`
	ActivePlayerID string `json:"activePlayerId"`
	DeckCount      int    `json:"deckCount"`
}

// ScoresUpdatedPayload carries the current score map.
type ScoresUpdatedPayload struct {
	Scores map[string]int `json:"scores"`
}

// GameOverPayload carries the final score map.
type GameOverPayload struct {
	FinalScores map[string]int `json:"finalScores"`
}

// EventManager publishes engine events to the host's channel without ever
// blocking the game lock.
type EventManager struct {
	eventChannel chan<- Event
}

// SetEventChannel sets the channel events are published to.
func (em *EventManager) SetEventChannel(eventChannel chan<- Event) {
	em.eventChannel = eventChannel
}

// PublishEvent publishes an event to the channel (non-blocking). Events are
// dropped if the channel is full or unset.
func (em *EventManager) PublishEvent(eventType EventType, roomID string, payload interface{}) {
	if em.eventChannel == nil {
		return
	}
	select {
	case em.eventChannel <- Event{
		Type:    eventType,
		RoomID:  roomID,
		Payload: payload,
	}:
	default:
	}
}
