// poolbench times a hot loop of acquire/release cycles against plain
// heap allocation of the same object type and reports both durations
package main

import (
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	gop "github.com/replay/go-object-pool"
)

// expensiveObject stands in for a payload that is costly to allocate
// freshly on every use
type expensiveObject struct {
	data [4096]float64
}

var sink *expensiveObject

func main() {
	iterations := flag.Int("iterations", 500000, "number of acquire/release cycles to time")
	useMmap := flag.Bool("mmap", false, "back the pool with mmap'd chunks instead of the heap")
	flag.Parse()

	log := logrus.New()

	var allocator gop.Allocator[expensiveObject]
	if *useMmap {
		mmapAllocator, err := gop.NewMmapAllocator[expensiveObject]()
		if err != nil {
			log.WithError(err).Fatal("creating mmap allocator failed")
		}
		allocator = mmapAllocator
	}

	pool := gop.NewObjectPool[expensiveObject](gop.NewConfig(), allocator)
	pool.OnGrow = func(elems uint) {
		log.WithField("elems", elems).Info("allocating new chunk")
	}

	log.WithField("iterations", *iterations).Info("starting loop using pool")
	start := time.Now()
	for i := 0; i < *iterations; i++ {
		handle, err := pool.Acquire(nil)
		if err != nil {
			log.WithError(err).Fatal("acquire failed")
		}
		handle.Value().data[0] = float64(i)
		if err := handle.Release(); err != nil {
			log.WithError(err).Fatal("release failed")
		}
	}
	poolDuration := time.Since(start)
	log.WithField("duration", poolDuration).Info("pool loop done")

	stats := pool.Stats()
	log.WithFields(logrus.Fields{
		"chunks":   stats.Chunks,
		"capacity": stats.Capacity,
	}).Info("pool state after the loop")

	if err := pool.Close(); err != nil {
		log.WithError(err).Fatal("closing pool failed")
	}

	log.Info("starting loop using plain allocation")
	start = time.Now()
	for i := 0; i < *iterations; i++ {
		obj := new(expensiveObject)
		obj.data[0] = float64(i)
		sink = obj
	}
	plainDuration := time.Since(start)
	log.WithField("duration", plainDuration).Info("plain allocation loop done")
}
