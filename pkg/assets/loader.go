package assets

import (
	"context"
	"image"
	"sync"
)

// Result is one finished load.
type Result struct {
	Name  string
	Image image.Image
	Err   error
}

// Loader decodes images off the frame loop. Results are collected with Poll
// from the same goroutine that drives the game, so game state is never
// touched concurrently.
type Loader struct {
	src     Source
	ctx     context.Context
	cancel  context.CancelFunc
	results chan Result

	mu      sync.Mutex
	pending map[string]bool
	wg      sync.WaitGroup
}

func NewLoader(src Source) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		src:     src,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 8),
		pending: make(map[string]bool),
	}
}

// Request starts loading name unless that load is already in flight.
func (l *Loader) Request(name string) bool {
	l.mu.Lock()
	if l.pending[name] || l.ctx.Err() != nil {
		l.mu.Unlock()
		return false
	}
	l.pending[name] = true
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, err := LoadImage(l.ctx, l.src, name)
		select {
		case l.results <- Result{Name: name, Image: img, Err: err}:
		case <-l.ctx.Done():
		}
	}()
	return true
}

// Poll returns a finished load if there is one. It never blocks.
func (l *Loader) Poll() (Result, bool) {
	select {
	case r := <-l.results:
		l.mu.Lock()
		delete(l.pending, r.Name)
		l.mu.Unlock()
		return r, true
	default:
		return Result{}, false
	}
}

// Pending reports whether name is still loading.
func (l *Loader) Pending(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending[name]
}

// Close abandons outstanding loads and waits for their goroutines.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}
