package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type window struct {
	start time.Time
	count int
}

// MemoryLimiter keeps fixed windows in process memory. A key's window starts
// with its first attempt. Expired windows are dropped by a background janitor
// until Close is called.
type MemoryLimiter struct {
	limit   int
	window  time.Duration
	now     func() time.Time
	windows *xsync.MapOf[string, window]

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type MemoryOption func(*MemoryLimiter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

func NewMemoryLimiter(limit int, win time.Duration, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		limit:   limit,
		window:  win,
		now:     time.Now,
		windows: xsync.NewMapOf[string, window](),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.janitor()
	return l
}

// Allow counts the attempt atomically per key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	w, _ := l.windows.Compute(key, func(old window, loaded bool) (window, bool) {
		if !loaded || now.Sub(old.start) >= l.window {
			return window{start: now, count: 1}, false
		}
		old.count++
		return old, false
	})

	return w.count <= l.limit, nil
}

// Close stops the janitor. It is safe to call more than once.
func (l *MemoryLimiter) Close() error {
	l.stopOnce.Do(func() {
		close(l.stop)
		<-l.done
	})
	return nil
}

func (l *MemoryLimiter) janitor() {
	defer close(l.done)

	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *MemoryLimiter) sweep() {
	now := l.now()
	l.windows.Range(func(key string, w window) bool {
		if now.Sub(w.start) >= l.window {
			l.windows.Compute(key, func(cur window, loaded bool) (window, bool) {
				// the window may have been restarted since Range saw it
				return cur, !loaded || now.Sub(cur.start) >= l.window
			})
		}
		return true
	})
}

// Len is the number of tracked keys
func (l *MemoryLimiter) Len() int {
	return l.windows.Size()
}
