// Package visualizer draws a live bar spectrum of the audio output.
//
// Loop owns the audio graph, the sample buffer and the drawing surface for
// one session. It follows playback: the graph is built lazily on the first
// play, a frame is requested while playing, and pause cancels the pending
// request. At most one frame request is outstanding at any time.
package visualizer

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunedeck/internal/analysis"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// SizeSource reports the rendered pixel size of the container.
type SizeSource interface {
	PixelSize() (width, height int)
}

// FrameSink receives the surface after every draw and after a resize.
type FrameSink interface {
	Present(img *image.RGBA)
}

// Loop is the visualizer session.
type Loop struct {
	logger    *slog.Logger
	tapper    ports.OutputTapper
	scheduler ports.FrameScheduler
	size      SizeSource
	sink      FrameSink
	opts      Options
	renderer  *BarRenderer

	mu      sync.Mutex
	state   domain.LoopState
	graph   *analysis.Graph
	data    domain.FrequencySample
	surface *Surface
	handle  ports.FrameHandle
	// gen invalidates callbacks that were already dequeued when cancelled
	gen    uint64
	frames uint64

	bus  ports.EventBus
	subs []domain.SubscriptionID
}

// NewLoop creates an uninitialized loop. Nothing touches the audio engine
// until the first OnPlay.
func NewLoop(
	logger *slog.Logger,
	tapper ports.OutputTapper,
	scheduler ports.FrameScheduler,
	size SizeSource,
	sink FrameSink,
	opts Options,
) *Loop {
	opts = opts.normalized()
	w, h := size.PixelSize()
	return &Loop{
		logger:    logger,
		tapper:    tapper,
		scheduler: scheduler,
		size:      size,
		sink:      sink,
		opts:      opts,
		renderer:  NewBarRenderer(opts),
		surface:   NewSurface(w, h),
	}
}

// Subscribe binds the loop to playback events on bus.
func (l *Loop) Subscribe(bus ports.EventBus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.bus = bus
	l.subs = append(l.subs,
		bus.Subscribe(domain.EventTrackStarted, func(domain.Event) { l.OnPlay() }),
		bus.Subscribe(domain.EventTrackPaused, func(domain.Event) { l.OnPause() }),
		bus.Subscribe(domain.EventTrackStopped, func(domain.Event) { l.OnStop() }),
	)
}

// State returns the lifecycle state.
func (l *Loop) State() domain.LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Frames returns how many frames were drawn.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// SurfaceSize returns the current surface dimensions.
func (l *Loop) SurfaceSize() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.surface.Width(), l.surface.Height()
}

// Anchor returns the edge the bars grow from.
func (l *Loop) Anchor() Anchor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renderer.Anchor()
}

// SetAnchor switches the bar anchor; the next frame uses it.
func (l *Loop) SetAnchor(a Anchor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.renderer.SetAnchor(a)
}

// OnPlay handles the play notification.
func (l *Loop) OnPlay() {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case domain.LoopInert:
		return
	case domain.LoopUninitialized:
		graph, err := analysis.NewGraph(l.tapper, l.opts.FFTSize, l.opts.Analysis)
		if err != nil {
			l.logger.Error("visualizer disabled: audio graph setup failed", slog.String("error", err.Error()))
			l.state = domain.LoopInert
			return
		}
		l.graph = graph
		l.data = make(domain.FrequencySample, graph.BinCount())
		l.logger.Debug("visualizer initialized", slog.Int("bins", graph.BinCount()))
	default:
		if l.graph.State() == analysis.ContextSuspended {
			if err := l.graph.Resume(); err != nil {
				l.logger.Warn("failed to resume audio context", slog.String("error", err.Error()))
			}
		}
	}

	l.state = domain.LoopRunning
	l.schedule()
}

// OnPause cancels the pending frame request. Calling it with nothing pending is fine.
func (l *Loop) OnPause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pause()
}

// OnStop pauses and suspends the audio context; the next play resumes it.
func (l *Loop) OnStop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pause()
	if l.graph != nil && l.graph.State() == analysis.ContextRunning {
		if err := l.graph.Suspend(); err != nil {
			l.logger.Warn("failed to suspend audio context", slog.String("error", err.Error()))
		}
	}
}

func (l *Loop) pause() {
	l.cancel()
	if l.state == domain.LoopRunning {
		l.state = domain.LoopPaused
	}
}

// OnResize matches the surface to the container right away, without
// waiting for the next frame. Layout stays with the draw.
func (l *Loop) OnResize() {
	w, h := l.size.PixelSize()

	l.mu.Lock()
	changed := l.surface.Resize(w, h)
	img := l.surface.Image()
	l.mu.Unlock()

	if changed {
		l.sink.Present(img)
	}
}

// Close tears the session down. The engine tap stays attached, so a closed
// loop cannot be brought back.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.subs {
		l.bus.Unsubscribe(id)
	}
	l.subs = nil
	l.cancel()
	if l.graph != nil {
		_ = l.graph.Close()
		l.graph = nil
	}
	l.state = domain.LoopInert
}

// schedule requests the next frame unless one is already pending.
func (l *Loop) schedule() {
	if l.handle != 0 {
		return
	}
	l.gen++
	gen := l.gen
	l.handle = l.scheduler.RequestFrame(func(now time.Time) { l.frame(gen, now) })
}

func (l *Loop) cancel() {
	if l.handle == 0 {
		return
	}
	l.scheduler.CancelFrame(l.handle)
	l.handle = 0
	l.gen++
}

func (l *Loop) frame(gen uint64, _ time.Time) {
	l.mu.Lock()
	if gen != l.gen || l.handle == 0 {
		l.mu.Unlock()
		return
	}
	l.handle = 0
	if l.state != domain.LoopRunning || l.graph == nil {
		l.mu.Unlock()
		return
	}

	w, h := l.size.PixelSize()
	l.surface.Resize(w, h)
	l.graph.ByteFrequencyData(l.data)
	l.renderer.Draw(l.surface, l.data)
	l.frames++
	img := l.surface.Image()
	l.schedule()
	l.mu.Unlock()

	l.sink.Present(img)
}
