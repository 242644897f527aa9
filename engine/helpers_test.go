package engine

import (
	"os"
	"slices"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

type boardSnapshot struct {
	cells     [][]Cell
	heights   []int
	searching uint64
	other     uint64
	empty     uint64
	moves     int
	outcome   Outcome
}

func snapshot(b *Board) boardSnapshot {
	s := boardSnapshot{
		heights:   slices.Clone(b.heights),
		searching: b.searchingBoard,
		other:     b.otherBoard,
		empty:     b.emptyBoard,
		moves:     b.moves,
		outcome:   b.outcome,
	}
	for _, col := range b.cells {
		s.cells = append(s.cells, slices.Clone(col))
	}
	return s
}

func checkInvariants(is *is.I, b *Board) {
	is.Helper()
	is.Equal(b.searchingBoard&b.otherBoard, uint64(0))
	is.Equal(b.emptyBoard, ^(b.searchingBoard|b.otherBoard)&b.masks.valid)
}

// place puts pieces for the given sides at the given columns, in order.
type move struct {
	column int
	side   Side
}

func mustPlace(t *testing.T, b *Board, moves ...move) {
	t.Helper()
	for _, m := range moves {
		if err := b.Place(m.column, m.side); err != nil {
			t.Fatalf("place %v: %v", m, err)
		}
	}
}

func mustApply(t *testing.T, e *Engine, moves ...move) {
	t.Helper()
	for _, m := range moves {
		if err := e.ApplyExternalMove(m.column, m.side); err != nil {
			t.Fatalf("apply %v: %v", m, err)
		}
	}
}

// drawSide gives a full 7x6 arrangement with no four in a row.
func drawSide(column, row int) Side {
	if (column/2+row)%2 == 0 {
		return First
	}
	return Second
}

// frozenClock never advances, so only MaxDepth ends a search.
func frozenClock() func() time.Time {
	t0 := time.Unix(1_700_000_000, 0)
	return func() time.Time { return t0 }
}

// steppingClock advances by step on every reading.
func steppingClock(step time.Duration) func() time.Time {
	t := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func testOptions(depth int) Options {
	opts := DefaultOptions()
	opts.PrimingDepth = depth
	opts.MaxDepth = depth
	opts.Now = frozenClock()
	return opts
}
