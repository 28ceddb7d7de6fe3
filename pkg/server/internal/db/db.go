package db

import (
	"database/sql"
	"fmt"
)

// DB represents the database connection
type DB struct {
	*sql.DB
}

// PlayerStats is a player's lifetime results row.
type PlayerStats struct {
	PlayerID    string
	GamesPlayed int64
	GamesWon    int64
	GamesFooled int64
	TotalScore  int64
}

// GameScore is one player's result in one finished game.
type GameScore struct {
	GameID   string
	PlayerID string
	Score    int64
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary database tables
func createTables(db *sql.DB) error {
	// Create games table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			rounds INTEGER NOT NULL DEFAULT 0,
			finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Create game_scores table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS game_scores (
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (game_id, player_id),
			FOREIGN KEY (game_id) REFERENCES games(id)
		)
	`)
	if err != nil {
		return err
	}

	// Create player_stats table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS player_stats (
			player_id TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL DEFAULT 0,
			games_won INTEGER NOT NULL DEFAULT 0,
			games_fooled INTEGER NOT NULL DEFAULT 0,
			total_score INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	return nil
}

// RecordGameResult persists a finished game and folds each score into the
// lifetime stats in one transaction. The highest score is the winner; a
// score of 1 or less marks the fool (negative scores are deserters).
func (db *DB) RecordGameResult(gameID, roomID string, rounds int, scores map[string]int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO games (id, room_id, rounds) VALUES (?, ?, ?)
	`, gameID, roomID, rounds)
	if err != nil {
		return err
	}

	var best int64
	for _, score := range scores {
		if score > best {
			best = score
		}
	}

	for playerID, score := range scores {
		_, err = tx.Exec(`
			INSERT INTO game_scores (game_id, player_id, score)
			VALUES (?, ?, ?)
		`, gameID, playerID, score)
		if err != nil {
			return err
		}

		won := 0
		if score == best && score > 1 {
			won = 1
		}
		fooled := 0
		if score <= 1 {
			fooled = 1
		}
		_, err = tx.Exec(`
			INSERT INTO player_stats (player_id, games_played, games_won, games_fooled, total_score)
			VALUES (?, 1, ?, ?, ?)
			ON CONFLICT(player_id) DO UPDATE SET
				games_played = games_played + 1,
				games_won = games_won + ?,
				games_fooled = games_fooled + ?,
				total_score = total_score + ?
		`, playerID, won, fooled, score, won, fooled, score)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPlayerStats returns a player's lifetime results
func (db *DB) GetPlayerStats(playerID string) (*PlayerStats, error) {
	stats := &PlayerStats{PlayerID: playerID}
	err := db.QueryRow(`
		SELECT games_played, games_won, games_fooled, total_score
		FROM player_stats WHERE player_id = ?
	`, playerID).Scan(&stats.GamesPlayed, &stats.GamesWon, &stats.GamesFooled, &stats.TotalScore)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %v", err)
	}
	return stats, nil
}

// GetTopPlayers returns up to limit players ordered by total score
func (db *DB) GetTopPlayers(limit int) ([]*PlayerStats, error) {
	rows, err := db.Query(`
		SELECT player_id, games_played, games_won, games_fooled, total_score
		FROM player_stats ORDER BY total_score DESC, games_won DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top players: %v", err)
	}
	defer rows.Close()

	var out []*PlayerStats
	for rows.Next() {
		stats := &PlayerStats{}
		if err := rows.Scan(&stats.PlayerID, &stats.GamesPlayed, &stats.GamesWon,
			&stats.GamesFooled, &stats.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, rows.Err()
}

// GetGameScores returns the recorded scores of a finished game
func (db *DB) GetGameScores(gameID string) ([]*GameScore, error) {
	rows, err := db.Query(`
		SELECT game_id, player_id, score FROM game_scores
		WHERE game_id = ? ORDER BY score DESC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game scores: %v", err)
	}
	defer rows.Close()

	var out []*GameScore
	for rows.Next() {
		gs := &GameScore{}
		if err := rows.Scan(&gs.GameID, &gs.PlayerID, &gs.Score); err != nil {
			return nil, err
		}
		out = append(out, gs)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
