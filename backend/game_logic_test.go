package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/4inarow/engine"
)

func TestDropReportsRowFromTop(t *testing.T) {
	g := newGame("alice", "bob")

	row, err := g.drop(3)
	require.NoError(t, err)
	assert.Equal(t, Rows-1, row)

	g.switchTurn()
	row, err = g.drop(3)
	require.NoError(t, err)
	assert.Equal(t, Rows-2, row)

	grid := g.grid()
	assert.Equal(t, P1, grid[Rows-1][3])
	assert.Equal(t, P2, grid[Rows-2][3])
	assert.Equal(t, Empty, grid[0][3])
}

func TestDropRejectsBadColumns(t *testing.T) {
	g := newGame("alice", "bob")
	_, err := g.drop(Cols)
	assert.ErrorIs(t, err, engine.ErrInvalidColumn)

	for i := 0; i < Rows; i++ {
		_, err := g.drop(0)
		require.NoError(t, err)
		g.switchTurn()
	}
	_, err = g.drop(0)
	assert.ErrorIs(t, err, engine.ErrColumnFull)
}

func TestVerticalWin(t *testing.T) {
	g := newGame("alice", "bob")
	for i := 0; i < 3; i++ {
		_, err := g.drop(0)
		require.NoError(t, err)
		g.switchTurn()
		_, err = g.drop(1)
		require.NoError(t, err)
		g.switchTurn()
	}
	assert.False(t, g.won())

	_, err := g.drop(0)
	require.NoError(t, err)
	assert.True(t, g.won())
	assert.False(t, g.isFull())
	assert.Equal(t, engine.P1Wins, g.Board.Outcome())
}

func TestFullBoardIsDraw(t *testing.T) {
	g := newGame("alice", "bob")
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			g.Turn = engine.Second
			if (c/2+r)%2 == 0 {
				g.Turn = engine.First
			}
			_, err := g.drop(c)
			require.NoError(t, err)
			require.False(t, g.won(), "win at column %d row %d", c, r)
		}
	}
	assert.True(t, g.isFull())
}

func TestSeats(t *testing.T) {
	g := newGame("alice", BotName)
	assert.Equal(t, engine.First, g.sideOf("alice"))
	assert.Equal(t, engine.Second, g.sideOf(BotName))
	assert.False(t, g.isBotTurn())
	g.switchTurn()
	assert.True(t, g.isBotTurn())

	st := statePayload(g, "alice")
	assert.Equal(t, BotName, st.Opponent)
	assert.Equal(t, P1, st.You)
	assert.Equal(t, P2, st.Turn)
}

func TestBotAnswersMirroredMoves(t *testing.T) {
	g := newGame("alice", BotName)
	g.bot = newBot(engine.Second, testApp().EngineOpts)

	_, err := g.drop(3)
	require.NoError(t, err)
	mirrorMove(g, 3, engine.First)
	g.switchTurn()

	col, st := chooseBotMove(g)
	assert.Equal(t, 3, col)
	assert.True(t, st.Book)
}
