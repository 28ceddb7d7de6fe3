package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
)

// Options configures room behavior.
type Options struct {
	// TurnTime is how long a player may think before the turn is skipped.
	TurnTime time.Duration
	// RobotDelayMin and RobotDelayMax bound the randomized pause before a
	// robot seat acts.
	RobotDelayMin time.Duration
	RobotDelayMax time.Duration
	// StartCards overrides the opening hand size (0 means the default six).
	StartCards int
	// Seed makes games deterministic when nonzero. Useful for tests only.
	Seed int64
}

func (o *Options) setDefaults() {
	if o.TurnTime == 0 {
		o.TurnTime = 30 * time.Second
	}
	if o.RobotDelayMin == 0 {
		o.RobotDelayMin = 1 * time.Second
	}
	if o.RobotDelayMax < o.RobotDelayMin {
		o.RobotDelayMax = o.RobotDelayMin + 2*time.Second
	}
}

// Server manages rooms and the score database.
type Server struct {
	log  slog.Logger
	db   Database
	opts Options

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewServer creates a server backed by the given database.
func NewServer(db Database, log slog.Logger, opts Options) *Server {
	opts.setDefaults()
	return &Server{
		log:   log,
		db:    db,
		opts:  opts,
		rooms: make(map[string]*Room),
	}
}

// DB exposes the score database for stats queries.
func (s *Server) DB() Database {
	return s.db
}

// CreateRoom creates and registers a new room.
func (s *Server) CreateRoom() *Room {
	id := uuid.New().String()
	room := newRoom(id, s.db, s.log, s.opts)

	s.mu.Lock()
	s.rooms[id] = room
	s.mu.Unlock()

	s.log.Infof("created room %s", id)
	return room
}

// GetRoom looks a room up by id.
func (s *Server) GetRoom(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

// CloseRoom shuts a room down and drops it from the registry.
func (s *Server) CloseRoom(id string) error {
	s.mu.Lock()
	room, ok := s.rooms[id]
	delete(s.rooms, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("room %s not found", id)
	}
	room.Close()
	s.log.Infof("closed room %s", id)
	return nil
}

// Rooms returns a snapshot of the registered rooms.
func (s *Server) Rooms() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	return out
}

// Shutdown closes every room. The database is closed by the caller that
// opened it.
func (s *Server) Shutdown() {
	s.mu.Lock()
	rooms := s.rooms
	s.rooms = make(map[string]*Room)
	s.mu.Unlock()

	for _, room := range rooms {
		room.Close()
	}
}
