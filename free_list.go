package gop

// slotRef identifies a single element slot by the index of its chunk
// within the pool and the slot's index within that chunk
type slotRef struct {
	chunk int
	idx   uint
}

// freeList is a stack of currently unoccupied slots across all chunks.
// The LIFO order means the most recently released slot gets reused
// first, which keeps the hot slots warm, but the pool does not depend
// on any particular order
type freeList []slotRef

// push adds a slot to the free list
func (f *freeList) push(ref slotRef) {
	*f = append(*f, ref)
}

// pop removes and returns the most recently pushed slot
// the second returned value indicates whether there was one to pop
func (f *freeList) pop() (slotRef, bool) {
	n := len(*f)
	if n == 0 {
		return slotRef{}, false
	}
	ref := (*f)[n-1]
	*f = (*f)[:n-1]
	return ref, true
}

// len returns the number of free slots
func (f freeList) len() uint {
	return uint(len(f))
}
