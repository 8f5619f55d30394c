package syncgroup

import "sync"

// SyncGroup wraps sync.WaitGroup so Add and Done cannot get out of step:
// callers queue functions, then Run starts them all as goroutines.
type SyncGroup struct {
	wg sync.WaitGroup

	mu      sync.Mutex
	funcs   []func()
	running int
}

func NewSyncGroup() *SyncGroup {
	return &SyncGroup{}
}

// Add queues a function. Must be called before Run; adds while goroutines
// from a previous Run are still in flight are dropped.
func (g *SyncGroup) Add(fn func()) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running > 0 {
		return
	}
	g.funcs = append(g.funcs, fn)
}

// Run starts every queued function in its own goroutine and clears the
// queue. A second Run while goroutines are still in flight is a no-op.
func (g *SyncGroup) Run() {
	g.mu.Lock()
	if g.running > 0 {
		g.mu.Unlock()
		return
	}
	fns := g.funcs
	g.funcs = nil
	g.running = len(fns)
	g.mu.Unlock()

	for _, fn := range fns {
		g.wg.Add(1)
		go func(do func()) {
			defer func() {
				g.wg.Done()
				g.mu.Lock()
				g.running--
				g.mu.Unlock()
			}()
			do()
		}(fn)
	}
}

// Wait blocks until every started goroutine finishes.
func (g *SyncGroup) Wait() {
	g.wg.Wait()
}
