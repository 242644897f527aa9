package main

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(key, value string) kafka.Message {
	return kafka.Message{Key: []byte(key), Value: []byte(value)}
}

func TestAggregatesHandle(t *testing.T) {
	a := newAggregates()
	ts := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

	require.NoError(t, a.handle(msg("bot.decision", `{"depth":0,"book":true,"col":3}`), ts))
	require.NoError(t, a.handle(msg("bot.decision",
		`{"depth":8,"nodes":2000,"elapsedMs":500,"cacheHits":30,"cacheMiss":70}`), ts))
	require.NoError(t, a.handle(msg("bot.decision",
		`{"depth":12,"nodes":2000,"elapsedMs":500,"provenWin":true}`), ts))
	require.NoError(t, a.handle(msg("game.end",
		`{"reason":"win","winner":"BOT","duration":"1m30s","moves":21}`), ts))
	require.NoError(t, a.handle(msg("move", `{"col":3}`), ts))
	assert.Error(t, a.handle(msg("game.end", `{`), ts))

	assert.Equal(t, 3, a.decisions)
	assert.Equal(t, 1, a.book)
	assert.Equal(t, 2, a.searched())
	assert.Equal(t, 12, a.maxDepth)
	assert.Equal(t, 1, a.provenWins)
	assert.InDelta(t, 4000.0, a.nodesPerSecond(), 1e-9)

	assert.Equal(t, 1, a.totalGames)
	assert.Equal(t, 21, a.totalMoves)
	assert.Equal(t, 90*time.Second, a.totalDur)
	assert.Equal(t, 1, a.wins["BOT"])
	assert.Equal(t, 1, a.perHour[ts.Truncate(time.Hour)])

	s := a.String()
	assert.Contains(t, s, "Engine decisions: 3 (book 1)")
	assert.Contains(t, s, "avg depth    : 10.0 (max 12)")
}
