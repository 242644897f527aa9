package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Statistics describes one decision. It is diagnostic only.
type Statistics struct {
	Column    int
	Score     Score
	Depth     int
	Book      bool
	Elapsed   time.Duration
	Nodes     uint64
	Prunes    []uint64 // per ply
	CacheSize int
	CacheHits uint64
	CacheMiss uint64
}

func (st Statistics) NodesPerSecond() float64 {
	if st.Elapsed <= 0 {
		return 0
	}
	return float64(st.Nodes) / st.Elapsed.Seconds()
}

func (st Statistics) TotalPrunes() uint64 {
	return lo.Sum(st.Prunes)
}

// MarshalZerologObject lets the stats be logged as one structured object.
func (st Statistics) MarshalZerologObject(e *zerolog.Event) {
	e.Int("column", st.Column).
		Int32("score", int32(st.Score)).
		Int("depth", st.Depth).
		Bool("book", st.Book).
		Dur("elapsed", st.Elapsed).
		Uint64("nodes", st.Nodes).
		Float64("nodes-per-sec", st.NodesPerSecond()).
		Uint64("prunes", st.TotalPrunes()).
		Int("cache-size", st.CacheSize).
		Uint64("cache-hits", st.CacheHits).
		Uint64("cache-misses", st.CacheMiss)
}

func (st Statistics) String() string {
	var sb strings.Builder
	mnodes := float64(st.Nodes) / 1e6

	sb.WriteString("Statistics\n")
	fmt.Fprintf(&sb, "  COLUMN              = %d\n", st.Column)
	fmt.Fprintf(&sb, "  DEPTH               = %d\n", st.Depth)
	fmt.Fprintf(&sb, "  ELAPSED             = %d ms\n", st.Elapsed.Milliseconds())
	fmt.Fprintf(&sb, "  TOTAL               = %.2f Mnodes\n", mnodes)
	fmt.Fprintf(&sb, "  SPEED               = %.2f Mnodes/sec\n", st.NodesPerSecond()/1e6)

	sb.WriteString("\nPruning\n")
	shown := st.Prunes[:min(10, len(st.Prunes))]
	sb.WriteString("  DEPTH                 ")
	for i := range shown {
		fmt.Fprintf(&sb, "%02d   ", i)
	}
	sb.WriteString("\n  PRUNES (k)            ")
	for _, p := range shown {
		fmt.Fprintf(&sb, "%04d ", p/1000)
	}
	sb.WriteString("\n")

	sb.WriteString("\nCache\n")
	fmt.Fprintf(&sb, "  SIZE                = %d k\n", st.CacheSize/1000)
	fmt.Fprintf(&sb, "  HITS                = %d k\n", st.CacheHits/1000)
	fmt.Fprintf(&sb, "  MISSES              = %d k\n", st.CacheMiss/1000)
	fmt.Fprintf(&sb, "  RATIO (hits/misses) = %.1f\n", ratio(st.CacheHits, st.CacheMiss))
	fmt.Fprintf(&sb, "  RATIO (hits/total)  = %.1f\n", ratio(st.CacheHits, st.Nodes))
	return sb.String()
}

func ratio(a, b uint64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
