package engine

import (
	"math"
	"time"
)

// timeBuffer is the allowance an engine carries from one decision to the
// next. Easy turns pay it back, hard turns borrow from it.
type timeBuffer struct {
	initial   time.Duration
	increment time.Duration
	left      time.Duration
}

func newTimeBuffer(opts Options) timeBuffer {
	return timeBuffer{
		initial:   opts.BufferInitial,
		increment: opts.BufferIncrement,
		left:      opts.BufferInitial,
	}
}

// regenerate credits one turn's increment, capped at the initial allowance.
func (tb *timeBuffer) regenerate() {
	tb.left = min(tb.initial, tb.left+tb.increment)
}

func (tb *timeBuffer) debit(spent time.Duration) {
	tb.left -= spent
}

// deadlineModel decides between iterations whether another, deeper one fits
// in what is left of the decision's budget.
type deadlineModel struct {
	opts      Options
	buffer    time.Duration
	moves     int
	remaining int // empty cells when the decision started
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// stop reports whether the iteration after depth should be skipped. delta is
// the duration of the iteration just completed and before the time spent
// before it started.
func (dm deadlineModel) stop(depth int, delta, before time.Duration) bool {
	if before+delta >= dm.opts.MaxTime {
		return true
	}
	exponent := float64(depth+1) - float64(dm.moves)*dm.opts.MoveWeight
	predicted := ms(delta) * math.Pow(dm.opts.GrowthFactor, exponent)
	left := ms(dm.opts.MaxTime - before)
	lent := (ms(dm.opts.BufferInitial)*dm.opts.BufferReserve - ms(dm.buffer)) / float64(dm.remaining)
	return predicted > left-lent
}
