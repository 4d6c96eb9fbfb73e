package frame

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// Manual is a FrameScheduler driven by explicit Step calls.
type Manual struct {
	mu       sync.Mutex
	nextID   ports.FrameHandle
	order    []ports.FrameHandle
	pending  map[ports.FrameHandle]ports.FrameCallback
	requests int
	cancels  int
}

// NewManual creates a manual scheduler.
func NewManual() *Manual {
	return &Manual{pending: make(map[ports.FrameHandle]ports.FrameCallback)}
}

// RequestFrame queues cb until the next Step.
func (m *Manual) RequestFrame(cb ports.FrameCallback) ports.FrameHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.requests++
	m.pending[m.nextID] = cb
	m.order = append(m.order, m.nextID)
	return m.nextID
}

// CancelFrame drops a queued callback.
func (m *Manual) CancelFrame(handle ports.FrameHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[handle]; ok {
		delete(m.pending, handle)
		m.cancels++
	}
}

// Step fires the callbacks queued before the call, in request order.
// Requests made by those callbacks wait for the next Step.
// It returns how many callbacks ran.
func (m *Manual) Step(now time.Time) int {
	m.mu.Lock()
	order := m.order
	m.order = nil
	m.mu.Unlock()

	ran := 0
	for _, id := range order {
		m.mu.Lock()
		cb, ok := m.pending[id]
		delete(m.pending, id)
		m.mu.Unlock()
		if ok && cb != nil {
			cb(now)
			ran++
		}
	}
	return ran
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Requests returns how many frames were requested in total.
func (m *Manual) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// Cancels returns how many pending requests were cancelled.
func (m *Manual) Cancels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}

var _ ports.FrameScheduler = (*Manual)(nil)
