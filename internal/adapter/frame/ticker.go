// Package frame provides ports.FrameScheduler implementations: a timer
// driven scheduler for the desktop window and a manual one for tests.
package frame

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// DefaultFPS is the refresh rate used when none is configured.
const DefaultFPS = 60

// Dispatcher runs fn on the goroutine that owns the display.
// fyne.Do is the production dispatcher.
type Dispatcher func(fn func())

// Ticker schedules frame callbacks on a fixed cadence aligned to its epoch.
// Callbacks never overlap, even when the dispatcher runs them in place.
type Ticker struct {
	interval time.Duration
	dispatch Dispatcher
	epoch    time.Time

	mu      sync.Mutex
	nextID  ports.FrameHandle
	pending map[ports.FrameHandle]*time.Timer
	closed  bool

	// run serializes callbacks
	run sync.Mutex
}

// NewTicker creates a scheduler running at fps frames per second.
// A nil dispatcher calls callbacks on the timer goroutine.
func NewTicker(fps int, dispatch Dispatcher) *Ticker {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Ticker{
		interval: time.Second / time.Duration(fps),
		dispatch: dispatch,
		epoch:    time.Now(),
		pending:  make(map[ports.FrameHandle]*time.Timer),
	}
}

// Interval returns the frame duration.
func (t *Ticker) Interval() time.Duration { return t.interval }

// RequestFrame schedules cb for the next frame boundary. On a closed
// ticker the request is accepted but never fires.
func (t *Ticker) RequestFrame(cb ports.FrameCallback) ports.FrameHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	if t.closed || cb == nil {
		return id
	}

	elapsed := time.Since(t.epoch) % t.interval
	t.pending[id] = time.AfterFunc(t.interval-elapsed, func() {
		t.dispatch(func() { t.fire(id, cb) })
	})
	return id
}

func (t *Ticker) fire(id ports.FrameHandle, cb ports.FrameCallback) {
	t.run.Lock()
	defer t.run.Unlock()

	t.mu.Lock()
	_, ok := t.pending[id]
	delete(t.pending, id)
	t.mu.Unlock()
	if !ok {
		return
	}
	cb(time.Now())
}

// CancelFrame drops a pending request. Unknown handles are ignored.
func (t *Ticker) CancelFrame(handle ports.FrameHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.pending[handle]; ok {
		timer.Stop()
		delete(t.pending, handle)
	}
}

// Pending returns the number of requests that have not fired yet.
func (t *Ticker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Close cancels everything and stops accepting requests.
func (t *Ticker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
	t.closed = true
}

var _ ports.FrameScheduler = (*Ticker)(nil)
