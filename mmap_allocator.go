package gop

import (
	"fmt"
	"reflect"
	"syscall"
	"unsafe"
)

// MmapAllocator satisfies chunk requests with anonymous private memory
// mappings instead of the Go heap, which keeps large pools out of the
// garbage collector's scan set entirely. Because mapped memory is
// invisible to the garbage collector the element type must not contain
// any pointers, that is verified once when the allocator is created.
// Deallocation has to unmap exactly the range that was mapped, so the
// allocator remembers the byte slice of every live mapping by its base
// address
type MmapAllocator[T any] struct {
	elemSize uintptr
	mappings map[uintptr][]byte
}

// NewMmapAllocator initializes a new mmap backed allocator.
// It returns an error if the element type contains pointers or has
// size zero, since neither can be stored in a mapping
func NewMmapAllocator[T any]() (*MmapAllocator[T], error) {
	var zero T
	elemType := reflect.TypeOf(&zero).Elem()

	if typeHasPointers(elemType) {
		return nil, fmt.Errorf("MmapAllocator: element type %s contains pointers which the garbage collector cannot track in mapped memory", elemType)
	}

	elemSize := unsafe.Sizeof(zero)
	if elemSize == 0 {
		return nil, fmt.Errorf("MmapAllocator: element type %s has size 0", elemType)
	}

	return &MmapAllocator[T]{
		elemSize: elemSize,
		mappings: make(map[uintptr][]byte),
	}, nil
}

// Allocate maps an anonymous memory area big enough to hold elems
// elements and returns it as an element slice
func (a *MmapAllocator[T]) Allocate(elems uint) ([]T, error) {
	if elems == 0 {
		return nil, fmt.Errorf("MmapAllocator: cannot allocate a chunk of 0 elements")
	}

	totalLen := int(uintptr(elems) * a.elemSize)
	data, err := syscall.Mmap(-1, 0, totalLen, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_ANON|syscall.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	base := uintptr(unsafe.Pointer(&data[0]))
	a.mappings[base] = data

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), elems), nil
}

// Deallocate unmaps the memory area backing the given chunk.
// The chunk must be exactly the slice a previous Allocate call
// returned, the recorded mapping length is checked against it
func (a *MmapAllocator[T]) Deallocate(chunk []T) error {
	if len(chunk) == 0 {
		return fmt.Errorf("MmapAllocator: cannot deallocate an empty chunk")
	}

	base := uintptr(unsafe.Pointer(&chunk[0]))
	data, ok := a.mappings[base]
	if !ok {
		return fmt.Errorf("MmapAllocator: no known mapping at address 0x%x", base)
	}

	if uintptr(len(chunk))*a.elemSize != uintptr(len(data)) {
		return fmt.Errorf("MmapAllocator: chunk of %d elements does not match the mapped length of %d bytes", len(chunk), len(data))
	}

	delete(a.mappings, base)
	return syscall.Munmap(data)
}

// typeHasPointers reports whether values of the given type contain any
// pointers the garbage collector would need to track
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// pointers, slices, maps, strings, channels, interfaces, funcs
		return true
	}
}
