package cpu

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gmeeker/ghost/attribute"
)

func TestThreadPoolFanOut(t *testing.T) {
	pool := NewThreadPool(4)
	defer pool.Close()

	var seen [4]int32
	var wg sync.WaitGroup
	wg.Add(4)
	pool.Thread(4, func(index, total int, args []attribute.Attribute) {
		defer wg.Done()
		atomic.StoreInt32(&seen[index], int32(total))
	}, nil)
	pool.Sync()
	wg.Wait()

	for i, v := range seen {
		if v != 4 {
			t.Errorf("unit %d saw total=%d, want 4", i, v)
		}
	}
}

func TestThreadPoolBoundedConcurrency(t *testing.T) {
	const cores = 4
	pool := NewThreadPool(cores)
	defer pool.Close()

	var active int32
	var maxActive int32
	var wg sync.WaitGroup
	wg.Add(cores)
	pool.Thread(cores, func(index, total int, args []attribute.Attribute) {
		defer wg.Done()
		n := atomic.AddInt32(&active, 1)
		for {
			m := atomic.LoadInt32(&maxActive)
			if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
				break
			}
		}
		atomic.AddInt32(&active, -1)
	}, nil)
	wg.Wait()

	if maxActive > cores {
		t.Errorf("max concurrent units = %d, want <= %d", maxActive, cores)
	}
}

func TestThreadCountOneRunsInline(t *testing.T) {
	pool := NewThreadPool(2)
	defer pool.Close()

	ran := false
	pool.Thread(1, func(index, total int, args []attribute.Attribute) {
		ran = true
	}, nil)
	if !ran {
		t.Errorf("Thread(1, ...) should execute inline before returning")
	}
}

func TestSyncWaitsForQueueDrain(t *testing.T) {
	pool := NewThreadPool(2)
	defer pool.Close()

	var done int32
	pool.Thread(6, func(index, total int, args []attribute.Attribute) {
		atomic.AddInt32(&done, 1)
	}, nil)
	pool.Sync()
	if got := atomic.LoadInt32(&done); got != 6 {
		t.Errorf("after Sync, done = %d, want 6", got)
	}
}
