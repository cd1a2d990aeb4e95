package gop

import (
	"fmt"
	"strings"

	"github.com/willf/bitset"
)

// chunk is one contiguous block of element storage obtained from the
// allocator in a single request. The number of elements is recorded
// permanently because the allocator needs the exact original size when
// the chunk is returned at teardown, sizes must never be recomputed
// from the chunk's position since the growth sequence is exponential.
// The live bitset tracks which slots currently hold a constructed
// object, every slot is either free or live at any point in time
type chunk[T any] struct {
	data  []T
	elems uint
	live  *bitset.BitSet
}

// newChunk wraps an allocated element slice into a chunk with all
// slots unoccupied
func newChunk[T any](data []T) chunk[T] {
	elems := uint(len(data))
	return chunk[T]{
		data:  data,
		elems: elems,
		live:  bitset.New(elems),
	}
}

// slot returns a pointer to the element slot at the given index
func (c *chunk[T]) slot(idx uint) *T {
	return &c.data[idx]
}

// liveCount returns the number of slots currently holding a
// constructed object
func (c *chunk[T]) liveCount() uint {
	return c.live.Count()
}

// String creates a string which illustrates the chunk's slot states in
// a human-readable format
func (c *chunk[T]) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Element Slots: %d\n", c.elems)
	fmt.Fprintf(&b, "Live Objects: %d\n", c.liveCount())

	liveBytes := c.live.Bytes()
	for i := 0; i < len(liveBytes); i++ {
		fmt.Fprintf(&b, "live[%d]: % 064b\n", i, liveBytes[i])
	}

	return b.String()
}
