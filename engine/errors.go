package engine

import "errors"

var (
	ErrBoardSize     = errors.New("board size not supported")
	ErrInvalidColumn = errors.New("bad col")
	ErrColumnFull    = errors.New("col full")
	ErrColumnEmpty   = errors.New("col empty")
	ErrInvalidSide   = errors.New("bad side")
	ErrGameOver      = errors.New("game is over")
)
