package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameMetrics(t *testing.T) {
	m := newGameMetrics()
	t0 := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

	m.apply(map[string]any{"event": "match.start", "gameId": "g1", "p1": "alice", "p2": botName}, t0)
	m.apply(map[string]any{"event": "move", "by": "alice"}, t0)
	m.apply(map[string]any{"event": "move", "by": botName}, t0)
	m.apply(map[string]any{"event": "bot.decision", "depth": float64(0), "book": true}, t0)
	m.apply(map[string]any{"event": "bot.decision", "depth": float64(9), "book": false}, t0)
	m.apply(map[string]any{"event": "game.end", "gameId": "g1", "winner": "alice"}, t0.Add(2*time.Minute))

	m.apply(map[string]any{"event": "match.paired", "gameId": "g2", "p1": "bob", "p2": "alice"}, t0)
	m.apply(map[string]any{"event": "game.end", "gameId": "g2", "winner": ""}, t0.Add(4*time.Minute))

	assert.Equal(t, 2, m.TotalGames)
	assert.Equal(t, 2, m.TotalMoves)
	assert.Equal(t, 2, m.GamesByHour[14])
	assert.Equal(t, 1, m.PlayerWins)
	assert.Equal(t, 1, m.Draws)
	assert.Equal(t, 0, m.BotWins)
	assert.Equal(t, 3*time.Minute, m.AverageDuration)
	assert.Equal(t, 2, m.BotDecisions)
	assert.Equal(t, 1, m.BookMoves)
	assert.Equal(t, 9, m.BotDepthSum)
	assert.NotContains(t, m.PlayerStats, botName)

	top := m.topPlayers(5)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Key)
	assert.Equal(t, PlayerStats{GamesPlayed: 2, Wins: 1, Moves: 1}, top[0].Value)
	assert.Contains(t, m.String(), "Bot Decisions: 2 (book 1, avg depth 4.5)")
}
