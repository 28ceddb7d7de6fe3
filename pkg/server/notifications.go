package server

import (
	"sync"

	"github.com/foolgame/foolserver/pkg/fool"
)

// Notification is a room message fanned out to subscribers. The payload is
// the engine event payload; transports serialize it as they see fit.
type Notification struct {
	Type    fool.EventType `json:"type"`
	RoomID  string         `json:"roomId"`
	Payload interface{}    `json:"payload"`
}

// subscriberRegistry fans notifications out to per-subscriber channels.
// Sends never block: a subscriber that stopped draining misses messages
// instead of stalling the room.
type subscriberRegistry struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]chan *Notification
}

func newSubscriberRegistry() *subscriberRegistry {
	return &subscriberRegistry{subs: make(map[uint64]chan *Notification)}
}

// subscribe registers a buffered channel and returns it with a cancel func.
func (r *subscriberRegistry) subscribe() (<-chan *Notification, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	ch := make(chan *Notification, 64)
	r.subs[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (r *subscriberRegistry) broadcast(n *Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ch := range r.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

func (r *subscriberRegistry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}
