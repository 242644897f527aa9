package engine

import "time"

// Options tunes the time manager and search. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// MaxTime caps the wall-clock time of one decision.
	MaxTime time.Duration
	// BufferInitial is both the starting and the maximum carried allowance.
	BufferInitial time.Duration
	// BufferIncrement is credited to the allowance at every decision.
	BufferIncrement time.Duration
	// BufferReserve is the share of BufferInitial that is never lent out.
	BufferReserve float64
	// GrowthFactor models how much longer each deeper iteration takes.
	GrowthFactor float64
	// MoveWeight discounts the growth exponent as the board fills up.
	MoveWeight float64
	// PrimingDepth is the first real depth after the depth 0 pass.
	PrimingDepth int
	// MaxDepth stops deepening past this depth when positive.
	MaxDepth int
	// DisableCache turns the result cache off.
	DisableCache bool
	// DisableOpenings skips the opening book.
	DisableOpenings bool
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		MaxTime:         10 * time.Second,
		BufferInitial:   20 * time.Second,
		BufferIncrement: 500 * time.Millisecond,
		BufferReserve:   0.75,
		GrowthFactor:    1.08,
		MoveWeight:      0.2,
		PrimingDepth:    7,
	}
}
