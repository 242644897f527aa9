package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/you/4inarow/engine"
)

func newGame(p1, p2 string) *Game {
	// The bit-plane orientation of a shared board does not matter.
	b, err := engine.NewBoard(Cols, Rows, engine.First)
	if err != nil {
		panic(err)
	}
	return &Game{
		ID:      uuid.New(),
		P1:      p1,
		P2:      p2,
		Board:   b,
		Turn:    engine.First,
		Started: time.Now(),
	}
}

// drop plays col for the side on turn and returns the row it landed in,
// counted from the top like the client grid.
func (g *Game) drop(col int) (row int, err error) {
	if err := g.Board.Place(col, g.Turn); err != nil {
		return -1, err
	}
	return Rows - g.Board.ColumnHeight(col), nil
}

func (g *Game) switchTurn() { g.Turn = g.Turn.Opponent() }

func (g *Game) won() bool {
	o := g.Board.Outcome()
	return o == engine.P1Wins || o == engine.P2Wins
}

func (g *Game) isFull() bool { return g.Board.Outcome() == engine.Draw }

// grid converts the board to the client layout: row 0 is the top.
func (g *Game) grid() [Rows][Cols]Cell {
	var out [Rows][Cols]Cell
	for c := 0; c < Cols; c++ {
		for r := 0; r < Rows; r++ {
			out[Rows-1-r][c] = g.Board.At(c, r)
		}
	}
	return out
}

func (g *Game) sideOf(username string) engine.Side {
	if g.P1 == username {
		return engine.First
	}
	return engine.Second
}

func (g *Game) isBotTurn() bool {
	return (g.Turn == engine.First && g.P1 == BotName) || (g.Turn == engine.Second && g.P2 == BotName)
}
