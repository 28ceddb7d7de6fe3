package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/foolgame/foolserver/pkg/server/internal/db"
)

// Database defines the interface for database operations
type Database interface {
	// RecordGameResult persists a finished game and updates lifetime stats
	RecordGameResult(gameID, roomID string, rounds int, scores map[string]int64) error
	// GetPlayerStats returns a player's lifetime results
	GetPlayerStats(playerID string) (*db.PlayerStats, error)
	// GetTopPlayers returns up to limit players ordered by total score
	GetTopPlayers(limit int) ([]*db.PlayerStats, error)
	// GetGameScores returns the recorded scores of a finished game
	GetGameScores(gameID string) ([]*db.GameScore, error)

	// Close closes the database connection
	Close() error
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string) (Database, error) {
	// Ensure the directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	return db.NewDB(dbPath)
}
