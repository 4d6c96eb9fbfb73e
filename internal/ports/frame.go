package ports

import "time"

// FrameHandle identifies one pending frame request. The zero value is never
// returned by RequestFrame.
type FrameHandle uint64

// FrameCallback runs once for the frame it was requested for.
type FrameCallback func(now time.Time)

// FrameScheduler delivers callbacks before the next display repaint.
//
// Callbacks are delivered one at a time, in request order, on the goroutine
// that owns the display surface.
type FrameScheduler interface {
	// RequestFrame schedules cb for the next frame.
	RequestFrame(cb FrameCallback) FrameHandle

	// CancelFrame drops a pending request. Unknown or already fired
	// handles are ignored.
	CancelFrame(handle FrameHandle)
}
