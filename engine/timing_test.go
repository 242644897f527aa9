package engine

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestTimeBufferRegeneratesUpToCap(t *testing.T) {
	is := is.New(t)
	tb := newTimeBuffer(DefaultOptions())
	tb.regenerate()
	is.Equal(tb.left, 20*time.Second)

	tb.debit(3 * time.Second)
	is.Equal(tb.left, 17*time.Second)
	tb.regenerate()
	is.Equal(tb.left, 17500*time.Millisecond)

	tb.debit(30 * time.Second)
	is.True(tb.left < 0)
	tb.regenerate()
	is.Equal(tb.left, -12*time.Second)
}

func TestDeadlineModel(t *testing.T) {
	is := is.New(t)
	dm := deadlineModel{
		opts:      DefaultOptions(),
		buffer:    20 * time.Second,
		moves:     10,
		remaining: 32,
	}
	is.True(!dm.stop(7, 500*time.Millisecond, time.Second))
	is.True(dm.stop(7, 8*time.Second, time.Second))
	// hard cap regardless of the model
	is.True(dm.stop(0, time.Millisecond, 10*time.Second))

	// a drained buffer makes the engine give up earlier
	drained := dm
	drained.buffer = -40 * time.Second
	delta := 3500 * time.Millisecond
	is.True(!dm.stop(9, delta, 2*time.Second))
	is.True(drained.stop(9, delta, 2*time.Second))
}
