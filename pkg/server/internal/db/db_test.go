package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordGameResult(t *testing.T) {
	db := testDB(t)

	err := db.RecordGameResult("g1", "room1", 12, map[string]int64{
		"alice": 3,
		"bob":   2,
		"carol": 1,
	})
	require.NoError(t, err)

	scores, err := db.GetGameScores("g1")
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "alice", scores[0].PlayerID, "ordered by score descending")
	assert.EqualValues(t, 3, scores[0].Score)

	stats, err := db.GetPlayerStats("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.GamesPlayed)
	assert.EqualValues(t, 1, stats.GamesWon)
	assert.EqualValues(t, 0, stats.GamesFooled)
	assert.EqualValues(t, 3, stats.TotalScore)

	fool, err := db.GetPlayerStats("carol")
	require.NoError(t, err)
	assert.EqualValues(t, 0, fool.GamesWon)
	assert.EqualValues(t, 1, fool.GamesFooled)
}

func TestStatsAccumulateAcrossGames(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.RecordGameResult("g1", "room1", 9, map[string]int64{
		"alice": 2, "bob": 1,
	}))
	require.NoError(t, db.RecordGameResult("g2", "room1", 14, map[string]int64{
		"alice": 1, "bob": 2,
	}))

	stats, err := db.GetPlayerStats("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.GamesPlayed)
	assert.EqualValues(t, 1, stats.GamesWon)
	assert.EqualValues(t, 1, stats.GamesFooled)
	assert.EqualValues(t, 3, stats.TotalScore)

	top, err := db.GetTopPlayers(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, top[0].TotalScore, top[1].TotalScore)
}

func TestDuplicateGameIDRejected(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.RecordGameResult("g1", "room1", 3, map[string]int64{"a": 1}))
	err := db.RecordGameResult("g1", "room1", 3, map[string]int64{"a": 1})
	assert.Error(t, err)

	// The failed duplicate must not double-count stats.
	stats, err := db.GetPlayerStats("a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.GamesPlayed)
}

func TestUnknownPlayerStatsAreZero(t *testing.T) {
	db := testDB(t)

	stats, err := db.GetPlayerStats("nobody")
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.GamesPlayed)
	assert.EqualValues(t, 0, stats.TotalScore)
}
