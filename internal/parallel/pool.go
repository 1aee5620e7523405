// Package parallel fans row bands of per-pixel work out to a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// bandTask is one band queued on a worker. done is the Run call's wait
// group.
type bandTask struct {
	band Band
	fn   func(Band)
	done *sync.WaitGroup
}

func (t bandTask) run() {
	defer t.done.Done()
	t.fn(t.band)
}

// WorkerPool runs bands on a fixed set of goroutines.
//
// Each worker owns a queue. An idle worker steals from the other queues,
// which balances bands whose pixels map mostly outside the source (cheap)
// against bands that interpolate every pixel.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan bandTask
	stop    chan struct{}
	wg      sync.WaitGroup
	open    atomic.Bool
}

// NewWorkerPool starts n workers. If n <= 0, GOMAXPROCS is used.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: n,
		queues:  make([]chan bandTask, n),
		stop:    make(chan struct{}),
	}
	depth := max(n*4, 8)
	for i := range p.queues {
		p.queues[i] = make(chan bandTask, depth)
	}
	p.open.Store(true)

	p.wg.Add(n)
	for i := range n {
		go p.loop(i)
	}
	return p
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.stop:
			drain(own)
			return
		case t := <-own:
			t.run()
		default:
			if t, ok := p.steal(id); ok {
				t.run()
				continue
			}
			select {
			case <-p.stop:
				drain(own)
				return
			case t := <-own:
				t.run()
			}
		}
	}
}

func drain(q chan bandTask) {
	for {
		select {
		case t := <-q:
			t.run()
		default:
			return
		}
	}
}

// steal takes one queued band from another worker, if any.
func (p *WorkerPool) steal(id int) (bandTask, bool) {
	for i, q := range p.queues {
		if i == id {
			continue
		}
		select {
		case t := <-q:
			return t, true
		default:
		}
	}
	return bandTask{}, false
}

// Run calls fn for every band, round-robin across the worker queues, and
// waits for all of them. fn must only touch rows of its own band. Run on a
// closed pool does nothing.
func (p *WorkerPool) Run(bands []Band, fn func(Band)) {
	if len(bands) == 0 || !p.open.Load() {
		return
	}

	var done sync.WaitGroup
	done.Add(len(bands))
	for i, b := range bands {
		select {
		case p.queues[i%p.workers] <- bandTask{band: b, fn: fn, done: &done}:
		case <-p.stop:
			done.Done()
		}
	}
	done.Wait()
}

// Close waits for queued bands and stops the workers. Close is idempotent.
func (p *WorkerPool) Close() {
	if !p.open.CompareAndSwap(true, false) {
		return
	}
	close(p.stop)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts bands.
func (p *WorkerPool) IsRunning() bool {
	return p.open.Load()
}
