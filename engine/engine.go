package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// Engine plays one side of a game. It owns the board, result cache and time
// allowance for the whole game; it is not safe for concurrent use.
type Engine struct {
	opts     Options
	masks    *Masks
	board    *Board
	side     Side
	book     OpeningBook
	searcher *searcher
	buffer   timeBuffer
	now      func() time.Time
	stats    Statistics
}

// columnResult is one top-level column's score in an iteration.
type columnResult struct {
	column int
	score  Score
}

func NewEngine(width, height int, side Side, opts Options) (*Engine, error) {
	if side != First && side != Second {
		return nil, fmt.Errorf("new engine: %w", ErrInvalidSide)
	}
	m, err := NewMasks(width, height)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		opts:   opts,
		masks:  m,
		board:  newBoard(m, side),
		side:   side,
		buffer: newTimeBuffer(opts),
		now:    opts.Now,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if !opts.DisableOpenings {
		e.book = NewOpeningBook(m)
	}
	var cache *Cache
	if !opts.DisableCache {
		cache = NewCache(m)
	}
	e.searcher = newSearcher(e.board, cache, side)
	return e, nil
}

func (e *Engine) Side() Side { return e.side }

// Board gives read access to the game state. Callers must not mutate it.
func (e *Engine) Board() *Board { return e.board }

func (e *Engine) CurrentOutcome() Outcome { return e.board.outcome }

func (e *Engine) LastStats() Statistics { return e.stats }

func (e *Engine) String() string { return e.board.String() }

// ApplyExternalMove records a move made by either side outside the engine.
func (e *Engine) ApplyExternalMove(column int, side Side) error {
	if e.board.outcome != None {
		return fmt.Errorf("apply column %d: %w", column, ErrGameOver)
	}
	return e.board.Place(column, side)
}

// DecideNextMove picks the column for the engine's side. It does not play
// the move; call ApplyExternalMove with the result to record it.
func (e *Engine) DecideNextMove() (int, error) {
	b := e.board
	if b.outcome != None || b.moves >= b.maxMoves {
		return -1, ErrGameOver
	}
	e.buffer.regenerate()
	start := e.now()
	e.searcher.resetCounters()

	if column, ok := e.book.Lookup(b.moves, b.otherBoard); ok && !b.IsFull(column) {
		e.stats = Statistics{Column: column, Book: true, Prunes: []uint64{}}
		log.Debug().Int("column", column).Int("ply", b.moves).Msg("opening-book-move")
		return column, nil
	}

	best, depth := e.deepen(start)

	elapsed := e.now().Sub(start)
	if IsLoss(best.score) {
		log.Warn().Int("column", best.column).Int("depth", depth).Msg("no non-losing move available")
	}
	e.stats = e.collectStats(best, depth, elapsed)
	e.buffer.debit(elapsed)

	log.Info().EmbedObject(e.stats).Dur("buffer", e.buffer.left).Msg("decided-move")
	log.Debug().Msg(e.stats.String())
	return best.column, nil
}

// deepen runs the iterative deepening loop and returns the best column of
// the deepest completed iteration together with that depth.
func (e *Engine) deepen(start time.Time) (columnResult, int) {
	b := e.board
	s := e.searcher
	model := deadlineModel{
		opts:      e.opts,
		buffer:    e.buffer.left,
		moves:     b.moves,
		remaining: b.maxMoves - b.moves,
	}

	var results []columnResult
	var best columnResult
	var elapsed time.Duration
	depth, completed := 0, 0

	for {
		if s.cache != nil {
			s.cache.Reset()
		}
		if results != nil {
			e.reorder(results)
		}

		results = e.scoreColumns(depth)
		best = e.pickBest(results)
		completed = depth

		if IsWin(best.score) {
			break
		}

		now := e.now().Sub(start)
		delta := now - elapsed
		if model.stop(depth, delta, elapsed) {
			break
		}
		elapsed = now

		// A search deeper than the empty cells left cannot see more.
		next := depth + 1
		if depth == 0 {
			next = max(e.opts.PrimingDepth, 1)
		}
		next = min(next, b.maxMoves-b.moves-1)
		if e.opts.MaxDepth > 0 {
			next = min(next, e.opts.MaxDepth)
		}
		if next <= depth {
			break
		}
		depth = next
	}
	return best, completed
}

// scoreColumns scores every column in the current visit order. Full columns
// get a score below any real one so they sink to the end of the order.
func (e *Engine) scoreColumns(depth int) []columnResult {
	s := e.searcher
	results := make([]columnResult, 0, len(s.order))
	for _, column := range s.order {
		if e.board.IsFull(column) {
			results = append(results, columnResult{column: column, score: negInfinity})
			continue
		}
		results = append(results, columnResult{column: column, score: s.root(column, depth)})
	}
	return results
}

// pickBest returns the first highest score in visit order. When every
// column loses, a column that takes one of the opponent's winning cells is
// preferred over an equally scored one that does not.
func (e *Engine) pickBest(results []columnResult) columnResult {
	best := results[0]
	for _, r := range results[1:] {
		if r.score > best.score {
			best = r
		}
	}
	if !IsLoss(best.score) {
		return best
	}
	for _, r := range results {
		if r.score == best.score && e.blocksWin(r.column) {
			return r
		}
	}
	return best
}

// blocksWin reports whether the opponent would win by playing column now.
func (e *Engine) blocksWin(column int) bool {
	b := e.board
	if b.IsFull(column) {
		return false
	}
	opp := e.side.Opponent()
	b.push(column, opp)
	defer b.pop(column)
	return b.outcome == WinnerFor(opp)
}

// reorder sorts the visit order by the previous iteration's scores, best
// first, keeping columns nearer the center first among equal scores.
func (e *Engine) reorder(results []columnResult) {
	center := e.board.width / 2
	slices.SortStableFunc(results, func(a, b columnResult) int {
		return abs(center-a.column) - abs(center-b.column)
	})
	slices.SortStableFunc(results, func(a, b columnResult) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	for i, r := range results {
		e.searcher.order[i] = r.column
	}
}

func (e *Engine) collectStats(best columnResult, depth int, elapsed time.Duration) Statistics {
	s := e.searcher
	st := Statistics{
		Column:  best.column,
		Score:   best.score,
		Depth:   depth,
		Elapsed: elapsed,
		Nodes:   s.nodes,
		Prunes:  slices.Clone(s.prunes),
	}
	if s.cache != nil {
		st.CacheSize = s.cache.Len()
		st.CacheHits = s.cache.Hits()
		st.CacheMiss = s.cache.Misses()
	}
	return st
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
