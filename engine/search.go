package engine

// searcher runs the alpha-beta search on the engine's single board. Every
// trial move goes through try, which pops the piece again on all exits.
type searcher struct {
	board *Board
	cache *Cache
	order []int // column visit order, best first

	side, other Side

	nodes  uint64
	prunes []uint64 // indexed by ply
}

func newSearcher(b *Board, c *Cache, side Side) *searcher {
	return &searcher{
		board:  b,
		cache:  c,
		order:  middleOut(b.width),
		side:   side,
		other:  side.Opponent(),
		prunes: make([]uint64, b.maxMoves+1),
	}
}

// middleOut orders columns from the center outwards, right before left.
func middleOut(width int) []int {
	order := make([]int, width)
	for i := 0; i < width; i++ {
		if i%2 == 0 {
			order[width-i-1] = i / 2
		} else {
			order[width-i-1] = width - (i+1)/2
		}
	}
	return order
}

func (s *searcher) resetCounters() {
	s.nodes = 0
	clear(s.prunes)
	if s.cache != nil {
		s.cache.ResetCounters()
	}
}

// try plays column for side, runs fn and takes the piece back.
func (s *searcher) try(column int, side Side, fn func() Score) Score {
	s.board.push(column, side)
	defer s.board.pop(column)
	return fn()
}

// root scores playing column for the searching side, searching depth more
// plies below it with a full window.
func (s *searcher) root(column, depth int) Score {
	return s.try(column, s.side, func() Score {
		return s.search(false, negInfinity, infinity, depth, 1)
	})
}

// search returns the value of the current position. maximize is true when
// the searching side is to move; ply counts pieces added since the root.
func (s *searcher) search(maximize bool, alpha, beta Score, depthLeft, ply int) Score {
	s.nodes++

	b := s.board
	if s.cache != nil {
		// Values are stored without the window they were computed under
		// and reused as exact.
		if v, ok := s.cache.Lookup(b.searchingBoard, b.otherBoard); ok {
			return v
		}
	}

	var eval Score
	if depthLeft <= 0 || b.outcome != None {
		eval = adjustForPly(Evaluate(b), ply)
	} else {
		best, mover := infinity, s.other
		if maximize {
			best, mover = negInfinity, s.side
		}
		for _, column := range s.order {
			if b.IsFull(column) {
				continue
			}
			result := s.try(column, mover, func() Score {
				return s.search(!maximize, alpha, beta, depthLeft-1, ply+1)
			})

			prune := false
			if maximize {
				best = max(best, result)
				prune = best >= beta
				alpha = max(alpha, best)
			} else {
				best = min(best, result)
				prune = best <= alpha
				beta = min(beta, best)
			}
			if prune {
				s.prunes[ply]++
				break
			}
		}
		eval = best
	}

	if s.cache != nil {
		s.cache.Store(b.searchingBoard, b.otherBoard, eval)
	}
	return eval
}

// adjustForPly pulls proven results towards zero so that quicker wins and
// slower losses are preferred.
func adjustForPly(v Score, ply int) Score {
	switch v {
	case ScoreWin:
		return v - Score(ply)
	case ScoreLoss:
		return v + Score(ply)
	}
	return v
}
