package engine

import (
	"testing"

	"github.com/matryer/is"
)

func TestEvaluateTerminal(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard(7, 6, Second)
	is.NoErr(err)
	mustPlace(t, b, move{2, Second}, move{2, Second}, move{2, Second}, move{2, Second})
	is.Equal(Evaluate(b), ScoreWin)
	is.True(IsWin(Evaluate(b)))

	b, err = NewBoard(7, 6, First)
	is.NoErr(err)
	mustPlace(t, b, move{2, Second}, move{2, Second}, move{2, Second}, move{2, Second})
	is.Equal(Evaluate(b), ScoreLoss)
	is.True(IsLoss(Evaluate(b)))

	b, err = NewBoard(7, 6, First)
	is.NoErr(err)
	for c := 0; c < 7; c++ {
		for r := 0; r < 6; r++ {
			is.NoErr(b.Place(c, drawSide(c, r)))
		}
	}
	is.Equal(Evaluate(b), Score(0))
}

func TestHeuristic(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(7, 6, First)
	is.NoErr(err)
	is.Equal(Evaluate(b), Score(0)) // both sides see the same open lines

	is.NoErr(b.Place(3, First))
	own := Evaluate(b)
	is.True(own > 0)
	is.True(!IsWin(own))

	is.NoErr(b.Remove(3))
	is.NoErr(b.Place(3, Second))
	is.Equal(Evaluate(b), -own)

	// an edge piece blocks fewer lines than a center piece
	is.NoErr(b.Remove(3))
	is.NoErr(b.Place(0, First))
	is.True(Evaluate(b) < own)
}

func TestHeuristicStaysInsideSentinels(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(8, 8, First)
	is.NoErr(err)
	for c := 0; c < 8; c += 2 {
		is.NoErr(b.Place(c, First))
	}
	v := Evaluate(b)
	is.True(!IsWin(v))
	is.True(!IsLoss(v))
	is.True(v < ScoreWin-provenBand && v > ScoreLoss+provenBand)
}

func TestAdjustForPly(t *testing.T) {
	is := is.New(t)
	is.Equal(adjustForPly(ScoreWin, 3), ScoreWin-3)
	is.Equal(adjustForPly(ScoreLoss, 3), ScoreLoss+3)
	is.Equal(adjustForPly(42, 3), Score(42))
	is.True(adjustForPly(ScoreWin, 1) > adjustForPly(ScoreWin, 5))
	is.True(adjustForPly(ScoreLoss, 5) > adjustForPly(ScoreLoss, 1))
}
