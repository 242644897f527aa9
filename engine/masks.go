package engine

import "fmt"

// WinLength is the number of aligned pieces needed to win.
const WinLength = 4

// Direction indexes the eight compass directions used by line windows.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	numDirections
)

// column and row deltas for each Direction.
var directionSteps = [numDirections][2]int{
	North:     {0, 1},
	NorthEast: {1, 1},
	East:      {1, 0},
	SouthEast: {1, -1},
	South:     {0, -1},
	SouthWest: {-1, -1},
	West:      {-1, 0},
	NorthWest: {-1, 1},
}

// Masks holds the per-cell bit masks for one board size. Bit i of a plane
// stands for column i%width, row i/width.
type Masks struct {
	width, height int
	valid         uint64
	coin          []uint64
	// windows[d][i] is the 4-cell line starting at cell i going in
	// direction d, or 0 when the line leaves the board.
	windows [numDirections][]uint64
}

func NewMasks(width, height int) (*Masks, error) {
	if width < 1 || height < 1 || width*height > 64 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBoardSize, width, height)
	}
	n := width * height
	m := &Masks{
		width:  width,
		height: height,
		coin:   make([]uint64, n),
	}
	if n == 64 {
		m.valid = ^uint64(0)
	} else {
		m.valid = (uint64(1) << n) - 1
	}
	for i := 0; i < n; i++ {
		m.coin[i] = uint64(1) << i
	}
	for d := Direction(0); d < numDirections; d++ {
		m.windows[d] = make([]uint64, n)
		dc, dr := directionSteps[d][0], directionSteps[d][1]
		for i := 0; i < n; i++ {
			col, row := i%width, i/width
			var w uint64
			for k := 0; k < WinLength; k++ {
				c, r := col+k*dc, row+k*dr
				if c < 0 || c >= width || r < 0 || r >= height {
					w = 0
					break
				}
				w |= m.CoinMask(c, r)
			}
			m.windows[d][i] = w
		}
	}
	return m, nil
}

func (m *Masks) Width() int  { return m.width }
func (m *Masks) Height() int { return m.height }

// Valid has one bit set for every cell on the board.
func (m *Masks) Valid() uint64 { return m.valid }

func (m *Masks) CoinMask(column, row int) uint64 {
	return m.coin[row*m.width+column]
}

// Window returns the line window for the cell at index i, or 0.
func (m *Masks) Window(d Direction, i int) uint64 {
	return m.windows[d][i]
}

// contains reports whether every bit of mask is set in board. An absent
// (zero) window never counts.
func contains(board, mask uint64) bool {
	return mask != 0 && board&mask == mask
}
