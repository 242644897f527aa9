package engine

// OpeningBook maps, for each of the first plies, the opponent's bit-plane to
// the column to answer with.
type OpeningBook []map[uint64]int

// openingBookWidth is the only board width with scripted openings.
const openingBookWidth = 7

// NewOpeningBook returns the scripted book for m's board size, or nil when
// there is none.
func NewOpeningBook(m *Masks) OpeningBook {
	if m.width != openingBookWidth || m.height < 2 {
		return nil
	}
	replies := []int{3, 2, 3, 3, 3, 4, 3}
	second := make(map[uint64]int, len(replies))
	for column, reply := range replies {
		second[m.CoinMask(column, 0)] = reply
	}
	return OpeningBook{
		{0: 3},
		second,
	}
}

// Lookup returns the scripted reply for ply given the opponent's pieces.
func (ob OpeningBook) Lookup(ply int, opponent uint64) (int, bool) {
	if ply >= len(ob) {
		return 0, false
	}
	column, ok := ob[ply][opponent]
	return column, ok
}
