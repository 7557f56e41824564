package parallel

import (
	"runtime"
	"sync"

	"github.com/dd0wney/linkscope/pkg/logging"
)

// Pool manages a fixed set of worker goroutines consuming a task queue.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // protects tasks from close during a concurrent send
	closed  bool         // protected by mu
}

// NewPool creates a pool with the given number of workers. A non-positive
// count falls back to the number of CPUs.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Warn("worker panic recovered", logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit queues a task. It returns false if the pool is already closed.
func (p *Pool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	p.tasks <- task
	return true
}

// Close stops accepting tasks and waits for queued work to drain.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// ForEach splits the index range [0, n) into one contiguous chunk per worker,
// runs fn on each chunk through the pool, and blocks until every chunk has
// finished. fn must be safe to call concurrently on disjoint ranges.
func (p *Pool) ForEach(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	chunk := (n + p.workers - 1) / p.workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		s, e := start, end
		wg.Add(1)
		if !p.Submit(func() {
			defer wg.Done()
			fn(s, e)
		}) {
			// Pool closed underneath us; run inline so callers never hang.
			fn(s, e)
			wg.Done()
		}
	}
	wg.Wait()
}
