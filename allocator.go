package gop

// Allocator is the capability the pool uses to obtain and return the
// raw storage backing its chunks. Allocate returns storage for exactly
// elems elements, Deallocate must be given the exact slice a previous
// Allocate call returned, with its length unmodified, because some
// implementations need the original size to return the memory
type Allocator[T any] interface {
	Allocate(elems uint) ([]T, error)
	Deallocate(chunk []T) error
}

// HeapAllocator satisfies chunk requests from the regular Go heap.
// Deallocation just drops the reference and lets the garbage collector
// take care of the rest. It is the allocator used by pools that were
// created without one
type HeapAllocator[T any] struct{}

// NewHeapAllocator returns a heap backed allocator
func NewHeapAllocator[T any]() *HeapAllocator[T] {
	return &HeapAllocator[T]{}
}

// Allocate returns a slice with capacity for elems elements
func (a *HeapAllocator[T]) Allocate(elems uint) ([]T, error) {
	return make([]T, elems), nil
}

// Deallocate releases the chunk to the garbage collector
func (a *HeapAllocator[T]) Deallocate(chunk []T) error {
	return nil
}
