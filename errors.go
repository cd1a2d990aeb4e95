package gop

import (
	"errors"
	"fmt"
)

// Common errors returned by the object pool.
var (
	// ErrPoolClosed is returned when acquiring from a pool that has
	// already been closed successfully
	ErrPoolClosed = errors.New("object pool is closed")

	// ErrHandleReleased is returned when Release is called on a handle
	// that has released its ownership before
	ErrHandleReleased = errors.New("handle has already been released")

	// ErrAllocationFailure wraps errors coming from the allocator when
	// it cannot satisfy a chunk request
	ErrAllocationFailure = errors.New("chunk allocation failed")

	// ErrConstructionFailure wraps errors returned by a constructor
	// passed to Acquire
	ErrConstructionFailure = errors.New("object construction failed")
)

// TeardownError is returned by Close when slots are still occupied by
// live objects, which means handles to them are still outstanding
type TeardownError struct {
	// Outstanding is the number of slots that are still constructed
	Outstanding uint
}

// Error implements the error interface
func (e *TeardownError) Error() string {
	return fmt.Sprintf("object pool closed with %d outstanding handles", e.Outstanding)
}
