package engine

import "fmt"

// Cell is the content of one board square.
type Cell int8

const (
	Empty Cell = 0
	P1    Cell = 1
	P2    Cell = 2
)

// Side is one of the two players. P1 moves first.
type Side uint8

const (
	First Side = iota + 1
	Second
)

func (s Side) Opponent() Side {
	if s == First {
		return Second
	}
	return First
}

func (s Side) Cell() Cell {
	if s == First {
		return P1
	}
	return P2
}

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// SideFromNumber maps the conventional player numbers 1 and 2 to a Side.
func SideFromNumber(n int) (Side, error) {
	switch n {
	case 1:
		return First, nil
	case 2:
		return Second, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidSide, n)
}

// Outcome is the state of the game after the last placement.
type Outcome uint8

const (
	None Outcome = iota
	P1Wins
	P2Wins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case P1Wins:
		return "p1-wins"
	case P2Wins:
		return "p2-wins"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// winnerOf panics on anything that is not a player's piece: classifying an
// empty square as a winner means the board bookkeeping is broken.
func winnerOf(c Cell) Outcome {
	switch c {
	case P1:
		return P1Wins
	case P2:
		return P2Wins
	}
	panic(fmt.Sprintf("engine: cannot classify winner for cell %d", c))
}

// WinnerFor returns the outcome that means side has won.
func WinnerFor(s Side) Outcome {
	return winnerOf(s.Cell())
}
