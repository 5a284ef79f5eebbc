package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

// Runner owns the ticking source of an Engine and serializes every access to
// it. At most one ticking goroutine exists at a time.
type Runner struct {
	mu  sync.Mutex // guards eng
	eng *Engine

	interval time.Duration

	ctrl   sync.Mutex // guards cancel and done
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a runner ticking eng every interval once started.
func NewRunner(eng *Engine, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{eng: eng, interval: interval}
}

// Start marks the timer started and begins ticking. Calling Start while
// already running replaces the previous ticking goroutine.
func (r *Runner) Start(ctx context.Context) {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()

	r.stopLocked()
	r.Do(func(e *Engine) { e.StartTimer() })

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	log.Printf("Starting reminder timer with %v tick interval", r.interval)
	go r.loop(ctx, done)
}

// Stop halts ticking and waits for the ticking goroutine to exit.
func (r *Runner) Stop() {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()
	r.stopLocked()
}

// Running reports whether a ticking goroutine is installed.
func (r *Runner) Running() bool {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Do runs fn with exclusive access to the engine.
func (r *Runner) Do(fn func(e *Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.eng)
}

// Snapshot returns a copy of the session under the runner's lock.
func (r *Runner) Snapshot() Session {
	var s Session
	r.Do(func(e *Engine) { s = e.Snapshot() })
	return s
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder timer stopped")
			return
		case <-ticker.C:
			r.Do(func(e *Engine) { e.Tick() })
		}
	}
}
