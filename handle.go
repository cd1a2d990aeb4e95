package gop

// Handle is a shared-ownership reference to one constructed object in
// a pool. Ownership can be shared by cloning a handle, the object
// stays alive until the last handle owning it is released, at that
// point the pool's destructor runs and the slot is recycled. The
// reference counting guarantees the release protocol runs exactly
// once per constructed object.
//
// A handle must not outlive its pool. A successful Close proves no
// handles were outstanding, so this can only be violated by throwing
// away a pool after ignoring a TeardownError.
// Like the pool itself, handles are not safe for concurrent use
type Handle[T any] struct {
	shared   *sharedSlot[T]
	released bool
}

// sharedSlot is the state all clones of a handle share, it ties the
// object pointer to its slot and pool and counts the owners
type sharedSlot[T any] struct {
	pool *ObjectPool[T]
	ref  slotRef
	obj  *T
	refs uint
}

// newHandle wraps a freshly constructed slot into a handle with a
// single owner
func newHandle[T any](p *ObjectPool[T], ref slotRef, obj *T) *Handle[T] {
	return &Handle[T]{
		shared: &sharedSlot[T]{
			pool: p,
			ref:  ref,
			obj:  obj,
			refs: 1,
		},
	}
}

// Value returns the pooled object. It panics when called on a
// released handle, a dangling handle would otherwise silently read a
// slot that may already hold a different object
func (h *Handle[T]) Value() *T {
	if h.released {
		panic("gop: Value called on a released handle")
	}
	return h.shared.obj
}

// Clone adds another owner of the underlying object and returns a new
// handle for it. It panics when called on a released handle
func (h *Handle[T]) Clone() *Handle[T] {
	if h.released {
		panic("gop: Clone called on a released handle")
	}
	h.shared.refs++
	return &Handle[T]{shared: h.shared}
}

// Release gives up this handle's ownership of the object. When the
// last owner releases, the object is destructed and its slot returns
// to the pool's free list. Releasing the same handle twice is refused
// with ErrHandleReleased, so a slot can never be recycled twice
func (h *Handle[T]) Release() error {
	if h.released {
		return ErrHandleReleased
	}

	h.released = true
	h.shared.refs--

	if h.shared.refs == 0 {
		h.shared.pool.release(h.shared.ref)
		h.shared.obj = nil
	}

	return nil
}
