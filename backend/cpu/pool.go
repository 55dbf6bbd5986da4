// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"sync"

	"github.com/gmeeker/ghost/attribute"
)

// KernelFunc is the CPU backend's kernel entry-point signature: a unit of
// work knows its index, the total unit count, and the shared argument
// list. See spec.md §4.6.
type KernelFunc func(index, total int, args []attribute.Attribute)

type work struct {
	fn    KernelFunc
	index int
	total int
	args  []attribute.Attribute
	quit  bool
}

// ThreadPool is a work-stealing-free FIFO thread pool of goroutine workers,
// coordinated by one mutex and one condition variable, exactly as spec.md
// §4.6/§5 describes the non-Apple default pool. Go's goroutine scheduler
// plays the role of the platform dispatch-group primitive spec.md mentions
// for Apple; a single implementation serves every GOOS (see DESIGN.md's
// Open Question resolution).
type ThreadPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []work
	running int // units dequeued but not yet finished
	workers int
	wg      sync.WaitGroup
}

// NewThreadPool starts n worker goroutines.
func NewThreadPool(n int) *ThreadPool {
	if n < 1 {
		n = 1
	}
	p := &ThreadPool{workers: n}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *ThreadPool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 {
			p.cond.Wait()
		}
		w := p.queue[0]
		p.queue = p.queue[1:]
		if len(p.queue) == 0 {
			p.cond.Broadcast()
		}
		if !w.quit {
			p.running++
		}
		p.mu.Unlock()

		if w.quit {
			return
		}
		w.fn(w.index, w.total, w.args)

		p.mu.Lock()
		p.running--
		if len(p.queue) == 0 && p.running == 0 {
			p.cond.Broadcast()
		}
		p.mu.Unlock()
	}
}

// Thread enqueues count units of fn, each receiving its own index in
// [0,count) and the shared total and args. If count == 1 the call runs
// inline on the calling goroutine, matching spec.md's "if N = 1 the call
// executes inline."
func (p *ThreadPool) Thread(count int, fn KernelFunc, args []attribute.Attribute) {
	if count <= 0 {
		return
	}
	if count == 1 {
		fn(0, 1, args)
		return
	}
	p.mu.Lock()
	for i := 0; i < count; i++ {
		p.queue = append(p.queue, work{fn: fn, index: i, total: count, args: args})
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Sync blocks until the queue is empty and every dequeued unit has finished
// running.
func (p *ThreadPool) Sync() {
	p.mu.Lock()
	for len(p.queue) != 0 || p.running != 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Close tears down the pool: Sync, then one quit sentinel per worker,
// then wait for every worker to exit.
func (p *ThreadPool) Close() {
	p.Sync()
	p.mu.Lock()
	for i := 0; i < p.workers; i++ {
		p.queue = append(p.queue, work{quit: true})
	}
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}
