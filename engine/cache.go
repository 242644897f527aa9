package engine

// Cache maps a position, identified by its two bit-planes, to the score the
// search computed for it during the current depth iteration. It is an open
// addressing table with linear probing; callers Reset it between iterations.
type Cache struct {
	masks *Masks
	slots []cacheEntry
	shift uint
	size  int

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	searching uint64
	other     uint64
	score     Score
	used      bool
}

const (
	defaultCachePow = 16
	fibMultiplier   = 0x9E3779B97F4A7C15
)

func NewCache(m *Masks) *Cache {
	c := &Cache{masks: m}
	c.alloc(defaultCachePow)
	return c
}

func (c *Cache) alloc(pow uint) {
	c.slots = make([]cacheEntry, 1<<pow)
	c.shift = 64 - pow
	c.size = 0
}

// Reset drops every entry but keeps the allocated table.
func (c *Cache) Reset() {
	clear(c.slots)
	c.size = 0
}

func (c *Cache) Len() int       { return c.size }
func (c *Cache) Hits() uint64   { return c.hits }
func (c *Cache) Misses() uint64 { return c.misses }

// ResetCounters zeroes the hit and miss counters.
func (c *Cache) ResetCounters() {
	c.hits, c.misses = 0, 0
}

func (c *Cache) slot(searching, other uint64) uint64 {
	return (MirrorHash(c.masks, searching, other) * fibMultiplier) >> c.shift
}

// Lookup returns the stored score for the exact pair of planes.
func (c *Cache) Lookup(searching, other uint64) (Score, bool) {
	mask := uint64(len(c.slots) - 1)
	for i := c.slot(searching, other); ; i = (i + 1) & mask {
		e := &c.slots[i]
		if !e.used {
			c.misses++
			return 0, false
		}
		if e.searching == searching && e.other == other {
			c.hits++
			return e.score, true
		}
	}
}

// Store records score for the pair of planes, overwriting an older value.
func (c *Cache) Store(searching, other uint64, score Score) {
	if 2*(c.size+1) > len(c.slots) {
		c.grow()
	}
	c.insert(searching, other, score)
}

func (c *Cache) insert(searching, other uint64, score Score) {
	mask := uint64(len(c.slots) - 1)
	for i := c.slot(searching, other); ; i = (i + 1) & mask {
		e := &c.slots[i]
		if !e.used {
			*e = cacheEntry{searching: searching, other: other, score: score, used: true}
			c.size++
			return
		}
		if e.searching == searching && e.other == other {
			e.score = score
			return
		}
	}
}

func (c *Cache) grow() {
	old := c.slots
	c.alloc(64 - c.shift + 1)
	for _, e := range old {
		if e.used {
			c.insert(e.searching, e.other, e.score)
		}
	}
}

// MirrorHash folds each row from both edges inwards, adding the codes of
// column c and column width-1-c together. A position and its left-right
// mirror image therefore hash identically.
func MirrorHash(m *Masks, searching, other uint64) uint64 {
	code := func(bit uint64) uint64 {
		switch {
		case searching&bit != 0:
			return 1
		case other&bit != 0:
			return 2
		}
		return 0
	}
	h := uint64(5)
	for row := 0; row < m.height; row++ {
		for column := 0; column < (m.width+1)/2; column++ {
			left := code(m.CoinMask(column, row))
			right := code(m.CoinMask(m.width-column-1, row))
			h = h*7 + left + right
		}
	}
	return h
}
