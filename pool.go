package gop

import (
	"fmt"
	"strings"
)

// ObjectPool hands out reusable objects of a single element type. It
// grows its storage in chunks whose sizes double starting from the
// configured initial size, keeps a free list of unoccupied slots
// across all chunks and constructs objects in place when they are
// acquired. Acquired objects are owned through handles, releasing the
// last handle of an object destructs it and recycles its slot.
// The pool only grows, slots are given back to the allocator when the
// pool is closed.
//
// An ObjectPool is not safe for concurrent use, callers that share a
// pool between goroutines must serialize access to it and to all of
// its handles externally
type ObjectPool[T any] struct {
	// Destructor, when set, is called with an object right before its
	// slot is recycled. Destruction must not fail, a destructor that
	// can fail should panic because recovering would leave the object
	// half torn down in a reusable slot
	Destructor func(*T)

	// OnGrow, when set, is called after each successful chunk
	// allocation with the number of element slots the new chunk holds
	OnGrow func(elems uint)

	cfg           ObjectPoolConfig
	allocator     Allocator[T]
	chunks        []chunk[T]
	free          freeList
	nextChunkSize uint
	closed        bool
}

// NewObjectPool initializes a new object pool with the given
// configuration, zero config fields fall back to the defaults.
// A nil allocator means chunks come from the regular Go heap
func NewObjectPool[T any](cfg ObjectPoolConfig, allocator Allocator[T]) *ObjectPool[T] {
	cfg = cfg.withDefaults()
	if allocator == nil {
		allocator = NewHeapAllocator[T]()
	}

	return &ObjectPool[T]{
		cfg:           cfg,
		allocator:     allocator,
		nextChunkSize: cfg.InitialChunkSize,
	}
}

// Acquire returns a handle to a freshly constructed object. If no free
// slot is available another chunk is allocated first. The slot is
// reset to the zero value of the element type and then the given
// constructor runs on it, a nil constructor leaves the zero value.
// When the constructor returns an error the slot goes back to the free
// list before the error is propagated, so a failed construction never
// loses a slot.
// Acquisition never fails because of pool exhaustion, only because the
// allocator or the constructor failed
func (p *ObjectPool[T]) Acquire(ctor func(*T) error) (*Handle[T], error) {
	if p.closed {
		return nil, ErrPoolClosed
	}

	if p.free.len() == 0 {
		if err := p.grow(); err != nil {
			return nil, err
		}
	}

	ref, ok := p.free.pop()
	if !ok {
		// grow registers at least one slot, so this cannot be reached
		return nil, fmt.Errorf("Acquire: no free slot after growing the pool")
	}

	c := &p.chunks[ref.chunk]
	obj := c.slot(ref.idx)

	var zero T
	*obj = zero

	if ctor != nil {
		if err := ctor(obj); err != nil {
			p.free.push(ref)
			return nil, fmt.Errorf("Acquire: %w: %w", ErrConstructionFailure, err)
		}
	}

	c.live.Set(ref.idx)

	return newHandle(p, ref, obj), nil
}

// grow requests the next chunk from the allocator and registers each
// of its slots in the free list. The chunk size is multiplied by the
// growth factor for the next time, but only after the allocation
// succeeded, a failed grow leaves the pool completely unchanged
func (p *ObjectPool[T]) grow() error {
	elems := p.nextChunkSize

	data, err := p.allocator.Allocate(elems)
	if err != nil {
		return fmt.Errorf("grow: %w: %w", ErrAllocationFailure, err)
	}
	if uint(len(data)) != elems {
		return fmt.Errorf("grow: %w: allocator returned %d slots instead of %d", ErrAllocationFailure, len(data), elems)
	}

	chunkIdx := len(p.chunks)
	p.chunks = append(p.chunks, newChunk(data))

	// register the new slots in ascending order, the order is not
	// semantically relevant
	for i := uint(0); i < elems; i++ {
		p.free.push(slotRef{chunk: chunkIdx, idx: i})
	}

	p.nextChunkSize *= p.cfg.GrowthFactor

	if p.OnGrow != nil {
		p.OnGrow(elems)
	}

	return nil
}

// release destructs the object in the given slot and returns the slot
// to the free list. It is called exactly once per constructed object,
// by the last handle giving up its ownership
func (p *ObjectPool[T]) release(ref slotRef) {
	c := &p.chunks[ref.chunk]

	if p.Destructor != nil {
		p.Destructor(c.slot(ref.idx))
	}

	c.live.Clear(ref.idx)
	p.free.push(ref)
}

// Close verifies that no live objects remain, returns every chunk to
// the allocator with its recorded size and clears the internal
// registries. If any slot still holds a constructed object it returns
// a TeardownError naming the number of outstanding handles and leaves
// the pool untouched, the caller can release the remaining handles and
// close again. Closing an already closed pool is a no-op
func (p *ObjectPool[T]) Close() error {
	if p.closed {
		return nil
	}

	var outstanding uint
	for i := range p.chunks {
		outstanding += p.chunks[i].liveCount()
	}
	if outstanding > 0 {
		return &TeardownError{Outstanding: outstanding}
	}

	var firstErr error
	for i := range p.chunks {
		err := p.allocator.Deallocate(p.chunks[i].data)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	p.chunks = nil
	p.free = nil
	p.closed = true

	return firstErr
}

// ObjectPoolStats describes the current state of a pool
type ObjectPoolStats struct {
	// Chunks is the number of allocated chunks
	Chunks int

	// Capacity is the total number of element slots across all chunks
	Capacity uint

	// Free is the number of unoccupied slots
	Free uint

	// Live is the number of slots holding a constructed object
	Live uint
}

// Stats returns counters describing the pool's current state.
// Capacity is always the sum of Free and Live
func (p *ObjectPool[T]) Stats() ObjectPoolStats {
	stats := ObjectPoolStats{
		Chunks: len(p.chunks),
		Free:   p.free.len(),
	}

	for i := range p.chunks {
		stats.Capacity += p.chunks[i].elems
		stats.Live += p.chunks[i].liveCount()
	}

	return stats
}

// Range calls visit for every currently constructed object, in chunk
// order. It stops early when visit returns false. The visited objects
// are owned by their handles, visit must not retain the pointers
func (p *ObjectPool[T]) Range(visit func(*T) bool) {
	for i := range p.chunks {
		c := &p.chunks[i]
		for idx, ok := c.live.NextSet(0); ok; idx, ok = c.live.NextSet(idx + 1) {
			if !visit(c.slot(idx)) {
				return
			}
		}
	}
}

// String creates a multi-line string which illustrates the pool's
// chunks and their slot states in a human-readable format
func (p *ObjectPool[T]) String() string {
	var b strings.Builder

	stats := p.Stats()
	fmt.Fprintf(&b, "-------------------------------\n")
	fmt.Fprintf(&b, "Chunks: %d\n", stats.Chunks)
	fmt.Fprintf(&b, "Capacity: %d\n", stats.Capacity)
	fmt.Fprintf(&b, "Free Slots: %d\n", stats.Free)
	fmt.Fprintf(&b, "Live Objects: %d\n", stats.Live)

	for i := range p.chunks {
		fmt.Fprintf(&b, "--- chunk %d ---\n", i)
		b.WriteString(p.chunks[i].String())
	}

	return b.String()
}
