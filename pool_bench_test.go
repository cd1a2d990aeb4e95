package gop

import (
	"testing"
)

// benchObject is deliberately large so that a fresh heap allocation
// per use has a visible cost compared to recycling a pooled slot
type benchObject struct {
	data [4096]float64
}

func BenchmarkAcquireRelease(b *testing.B) {
	pool := NewObjectPool[benchObject](NewConfig(), nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handle, err := pool.Acquire(nil)
		if err != nil {
			b.Fatal(err)
		}
		handle.Value().data[0] = float64(i)
		if err := handle.Release(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAcquireReleaseMmap(b *testing.B) {
	allocator, err := NewMmapAllocator[benchObject]()
	if err != nil {
		b.Fatal(err)
	}
	pool := NewObjectPool[benchObject](NewConfig(), allocator)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handle, err := pool.Acquire(nil)
		if err != nil {
			b.Fatal(err)
		}
		handle.Value().data[0] = float64(i)
		if err := handle.Release(); err != nil {
			b.Fatal(err)
		}
	}
}

var benchSink *benchObject

func BenchmarkPlainAllocation(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		obj := new(benchObject)
		obj.data[0] = float64(i)
		benchSink = obj
	}
}
