package engine

import "math"

// Score is a search value from the searching side's point of view.
type Score int32

const (
	// ScoreWin and ScoreLoss are the proven win/loss sentinels. The search
	// moves them towards zero by the number of plies it took to get there,
	// so anything within maxMoves of a sentinel still counts as proven.
	ScoreWin  Score = 1 << 24
	ScoreLoss Score = -ScoreWin

	// window bounds, strictly outside every reachable score
	infinity    Score = math.MaxInt32
	negInfinity Score = -math.MaxInt32
)

// provenBand covers the largest ply distance on a 64-cell board.
const provenBand = 64

func IsWin(s Score) bool  { return s >= ScoreWin-provenBand }
func IsLoss(s Score) bool { return s <= ScoreLoss+provenBand }

// Evaluate scores the board for its searching side: the sentinels for a
// decided game, 0 for a draw and the line-potential heuristic otherwise.
func Evaluate(b *Board) Score {
	switch b.outcome {
	case None:
		return heuristic(b)
	case Draw:
		return 0
	}
	if b.outcome == WinnerFor(b.searching) {
		return ScoreWin
	}
	return ScoreLoss
}

// heuristic rewards every 4-cell window that a side could still complete,
// weighting windows lower on the board more.
func heuristic(b *Board) Score {
	good := b.searchingBoard | b.emptyBoard
	bad := b.otherBoard | b.emptyBoard
	m := b.masks

	var goodValue, badValue int32
	for i := 0; i < b.maxMoves; i++ {
		value := int32(b.height - i/b.width)
		for d := Direction(0); d < numDirections; d++ {
			w := m.windows[d][i]
			if contains(good, w) {
				goodValue += value
			}
			if contains(bad, w) {
				badValue += value
			}
		}
	}
	return Score(goodValue - badValue)
}
