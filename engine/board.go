package engine

import (
	"fmt"
	"strings"
)

// Board is the live game state. Pieces are tracked twice: in a dense grid
// used for win detection and in two bit-planes, one for the searching side
// and one for its opponent. A Board is mutated in place by the search and
// must be restored exactly after every trial move.
type Board struct {
	masks     *Masks
	width     int
	height    int
	maxMoves  int
	searching Side

	cells   [][]Cell // cells[column][row], row 0 at the bottom
	heights []int

	searchingBoard uint64
	otherBoard     uint64
	emptyBoard     uint64

	moves   int
	outcome Outcome
}

// NewBoard creates an empty board whose bit-planes are relative to searching.
func NewBoard(width, height int, searching Side) (*Board, error) {
	m, err := NewMasks(width, height)
	if err != nil {
		return nil, err
	}
	return newBoard(m, searching), nil
}

func newBoard(m *Masks, searching Side) *Board {
	b := &Board{
		masks:     m,
		width:     m.width,
		height:    m.height,
		maxMoves:  m.width * m.height,
		searching: searching,
		cells:     make([][]Cell, m.width),
		heights:   make([]int, m.width),
	}
	for c := range b.cells {
		b.cells[c] = make([]Cell, m.height)
	}
	b.emptyBoard = m.valid
	return b
}

func (b *Board) Width() int { return b.width }
func (b *Board) Height() int { return b.height }
func (b *Board) MaxMoves() int { return b.maxMoves }
func (b *Board) MoveCount() int { return b.moves }
func (b *Board) Outcome() Outcome { return b.outcome }
func (b *Board) Searching() Side { return b.searching }
func (b *Board) SearchingBoard() uint64 { return b.searchingBoard }
func (b *Board) OtherBoard() uint64 { return b.otherBoard }
func (b *Board) EmptyBoard() uint64 { return b.emptyBoard }

func (b *Board) ColumnHeight(column int) int { return b.heights[column] }

// At returns the piece at column, row (row 0 is the bottom).
func (b *Board) At(column, row int) Cell { return b.cells[column][row] }

// IsFull reports whether no more pieces fit in column.
func (b *Board) IsFull(column int) bool { return b.heights[column] == b.height }

// OpenColumns lists the columns that can still take a piece.
func (b *Board) OpenColumns() []int {
	out := make([]int, 0, b.width)
	for c := 0; c < b.width; c++ {
		if !b.IsFull(c) {
			out = append(out, c)
		}
	}
	return out
}

// Place drops a piece for side into column. The board is untouched when the
// move is illegal.
func (b *Board) Place(column int, side Side) error {
	if column < 0 || column >= b.width {
		return fmt.Errorf("place column %d: %w", column, ErrInvalidColumn)
	}
	if side != First && side != Second {
		return fmt.Errorf("place column %d: %w", column, ErrInvalidSide)
	}
	if b.IsFull(column) {
		return fmt.Errorf("place column %d: %w", column, ErrColumnFull)
	}
	b.push(column, side)
	return nil
}

// Remove takes the top piece off column, whoever owns it.
func (b *Board) Remove(column int) error {
	if column < 0 || column >= b.width {
		return fmt.Errorf("remove column %d: %w", column, ErrInvalidColumn)
	}
	if b.heights[column] == 0 {
		return fmt.Errorf("remove column %d: %w", column, ErrColumnEmpty)
	}
	b.pop(column)
	return nil
}

// push is Place without the precondition checks.
func (b *Board) push(column int, side Side) {
	row := b.heights[column]
	b.heights[column]++
	coin := side.Cell()
	b.cells[column][row] = coin

	mask := b.masks.CoinMask(column, row)
	if side == b.searching {
		b.searchingBoard |= mask
	} else {
		b.otherBoard |= mask
	}
	b.emptyBoard = ^(b.searchingBoard | b.otherBoard) & b.masks.valid

	b.moves++
	b.outcome = b.outcomeAfter(column, row, coin)
}

// pop is Remove without the precondition checks.
func (b *Board) pop(column int) {
	b.heights[column]--
	row := b.heights[column]
	b.cells[column][row] = Empty

	mask := b.masks.CoinMask(column, row)
	b.searchingBoard &^= mask
	b.otherBoard &^= mask
	b.emptyBoard = ^(b.searchingBoard | b.otherBoard) & b.masks.valid

	b.moves--
	b.outcome = None
}

func (b *Board) outcomeAfter(column, row int, coin Cell) Outcome {
	if b.connects(column, row, coin) {
		return winnerOf(coin)
	}
	if b.moves == b.maxMoves {
		return Draw
	}
	return None
}

// connects checks the four axes through the piece just placed at column,
// row. Only downward matters vertically since nothing sits above it.
func (b *Board) connects(column, row int, coin Cell) bool {
	need := WinLength - 1
	return b.run(column, row, 0, -1, coin) >= need ||
		b.run(column, row, -1, 0, coin)+b.run(column, row, 1, 0, coin) >= need ||
		b.run(column, row, 1, 1, coin)+b.run(column, row, -1, -1, coin) >= need ||
		b.run(column, row, -1, 1, coin)+b.run(column, row, 1, -1, coin) >= need
}

// run counts consecutive coin pieces from column, row (exclusive) stepping
// by dc, dr.
func (b *Board) run(column, row, dc, dr int, coin Cell) int {
	n := 0
	for c, r := column+dc, row+dr; c >= 0 && c < b.width && r >= 0 && r < b.height; c, r = c+dc, r+dr {
		if b.cells[c][r] != coin {
			break
		}
		n++
	}
	return n
}

// String renders the grid top row first: X for P1, O for P2, . for empty.
func (b *Board) String() string {
	var sb strings.Builder
	for row := b.height - 1; row >= 0; row-- {
		for column := 0; column < b.width; column++ {
			if column > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(cellSymbol(b.cells[column][row]))
		}
		if row != 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellSymbol(c Cell) byte {
	switch c {
	case P1:
		return 'X'
	case P2:
		return 'O'
	}
	return '.'
}
