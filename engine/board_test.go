package engine

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func TestPlaceRemoveInverse(t *testing.T) {
	is := is.New(t)
	for game := 0; game < 50; game++ {
		b, err := NewBoard(7, 6, First)
		is.NoErr(err)
		side := First
		for b.Outcome() == None {
			checkInvariants(is, b)
			before := snapshot(b)
			for _, c := range b.OpenColumns() {
				is.NoErr(b.Place(c, side))
				checkInvariants(is, b)
				is.NoErr(b.Remove(c))
				is.Equal(snapshot(b), before)
			}
			open := b.OpenColumns()
			is.NoErr(b.Place(open[frand.Intn(len(open))], side))
			side = side.Opponent()
		}
		checkInvariants(is, b)
	}
}

func TestPlaceRejectsIllegalMoves(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(4, 2, Second)
	is.NoErr(err)

	is.True(errors.Is(b.Place(-1, First), ErrInvalidColumn))
	is.True(errors.Is(b.Place(4, First), ErrInvalidColumn))
	is.True(errors.Is(b.Place(0, Side(7)), ErrInvalidSide))
	is.True(errors.Is(b.Remove(1), ErrColumnEmpty))

	mustPlace(t, b, move{1, First}, move{1, Second})
	before := snapshot(b)
	is.True(errors.Is(b.Place(1, First), ErrColumnFull))
	is.Equal(snapshot(b), before)
}

func TestPlaneOwnership(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(7, 6, Second)
	is.NoErr(err)
	mustPlace(t, b, move{3, First}, move{3, Second})
	is.Equal(b.OtherBoard(), b.masks.CoinMask(3, 0))
	is.Equal(b.SearchingBoard(), b.masks.CoinMask(3, 1))
	is.Equal(b.At(3, 0), P1)
	is.Equal(b.At(3, 1), P2)
	is.Equal(b.ColumnHeight(3), 2)
	is.Equal(b.MoveCount(), 2)
}

func TestWinDetection(t *testing.T) {
	cases := []struct {
		name  string
		moves []move
		want  Outcome
	}{
		{"vertical", []move{{0, First}, {0, First}, {0, First}, {0, First}}, P1Wins},
		{"horizontal", []move{{0, Second}, {1, Second}, {2, Second}, {3, Second}}, P2Wins},
		{"horizontal gap filled last", []move{{0, First}, {1, First}, {3, First}, {2, First}}, P1Wins},
		{"rising diagonal", []move{
			{0, First},
			{1, Second}, {1, First},
			{2, Second}, {2, Second}, {2, First},
			{3, Second}, {3, Second}, {3, Second}, {3, First},
		}, P1Wins},
		{"falling diagonal", []move{
			{6, Second},
			{5, First}, {5, Second},
			{4, First}, {4, First}, {4, Second},
			{3, First}, {3, First}, {3, First}, {3, Second},
		}, P2Wins},
		{"three is not a win", []move{{0, First}, {1, First}, {2, First}}, None},
		{"vertical three", []move{{5, Second}, {5, Second}, {5, Second}}, None},
		{"broken line", []move{{0, First}, {1, First}, {2, Second}, {3, First}, {4, First}}, None},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			b, err := NewBoard(7, 6, First)
			is.NoErr(err)
			mustPlace(t, b, tc.moves...)
			is.Equal(b.Outcome(), tc.want)
		})
	}
}

func TestRemoveClearsOutcome(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(7, 6, First)
	is.NoErr(err)
	mustPlace(t, b, move{0, First}, move{0, First}, move{0, First}, move{0, First})
	is.Equal(b.Outcome(), P1Wins)
	is.NoErr(b.Remove(0))
	is.Equal(b.Outcome(), None)
}

func TestFullBoardIsDraw(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(7, 6, First)
	is.NoErr(err)
	for c := 0; c < 7; c++ {
		for r := 0; r < 6; r++ {
			is.Equal(b.Outcome(), None)
			is.NoErr(b.Place(c, drawSide(c, r)))
		}
	}
	is.Equal(b.Outcome(), Draw)
	is.Equal(len(b.OpenColumns()), 0)
	is.Equal(b.EmptyBoard(), uint64(0))
	checkInvariants(is, b)
}

func TestBoardString(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(4, 3, First)
	is.NoErr(err)
	mustPlace(t, b, move{0, First}, move{1, Second}, move{1, First})
	is.Equal(b.String(), ". . . .\n. X . .\nX O . .")
}
