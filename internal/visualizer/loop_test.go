package visualizer

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/frame"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
)

type container struct {
	mu   sync.Mutex
	w, h int
}

func (c *container) PixelSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

func (c *container) set(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w, c.h = w, h
}

type sink struct {
	mu       sync.Mutex
	presents int
	last     *image.RGBA
}

func (s *sink) Present(img *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presents++
	s.last = img
}

type fixture struct {
	engine    *mock.Engine
	scheduler *frame.Manual
	size      *container
	sink      *sink
	loop      *Loop
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine := mock.NewEngine()
	require.NoError(t, engine.Initialize(44100, 0))

	f := &fixture{
		engine:    engine,
		scheduler: frame.NewManual(),
		size:      &container{w: 320, h: 100},
		sink:      &sink{},
	}
	f.loop = NewLoop(logger.NewTestLogger(), engine, f.scheduler, f.size, f.sink, DefaultOptions())
	return f
}

func (f *fixture) step() int {
	return f.scheduler.Step(time.Now())
}

func TestLoopLazyInit(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, domain.LoopUninitialized, f.loop.State())
	assert.Equal(t, 0, f.scheduler.Pending())

	f.loop.OnPlay()
	assert.Equal(t, domain.LoopRunning, f.loop.State())
	assert.Equal(t, 1, f.scheduler.Pending())

	// the tap is now owned by the loop
	_, err := f.engine.OutputTap()
	assert.ErrorIs(t, err, domain.ErrSourceAlreadyAttached)
}

func TestLoopRunsUntilCancelled(t *testing.T) {
	f := newFixture(t)
	f.loop.OnPlay()

	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, f.step())
		assert.Equal(t, 1, f.scheduler.Pending())
	}
	assert.Equal(t, uint64(5), f.loop.Frames())
	assert.Equal(t, 5, f.sink.presents)
}

func TestLoopPauseCancelsExactlyOne(t *testing.T) {
	f := newFixture(t)
	f.loop.OnPlay()
	f.step()

	f.loop.OnPause()
	assert.Equal(t, 0, f.scheduler.Pending())
	assert.Equal(t, 1, f.scheduler.Cancels())
	assert.Equal(t, domain.LoopPaused, f.loop.State())

	assert.NotPanics(t, f.loop.OnPause)
	assert.Equal(t, 1, f.scheduler.Cancels())
	assert.Equal(t, 0, f.step())
}

func TestLoopPauseBeforeInit(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, f.loop.OnPause)
	assert.NotPanics(t, f.loop.OnStop)
	assert.Equal(t, domain.LoopUninitialized, f.loop.State())
}

func TestLoopResumeNeverDuplicates(t *testing.T) {
	f := newFixture(t)
	f.loop.OnPlay()
	f.loop.OnPlay()
	assert.Equal(t, 1, f.scheduler.Pending())

	f.loop.OnPause()
	f.loop.OnPlay()
	f.loop.OnPlay()
	assert.Equal(t, domain.LoopRunning, f.loop.State())
	assert.Equal(t, 1, f.scheduler.Pending())

	assert.Equal(t, 1, f.step())
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestLoopStopSuspendsAndPlayResumes(t *testing.T) {
	f := newFixture(t)
	f.loop.OnPlay()
	f.step()

	f.loop.OnStop()
	assert.Equal(t, domain.LoopPaused, f.loop.State())
	assert.Equal(t, 0, f.scheduler.Pending())

	f.loop.OnPlay()
	assert.Equal(t, domain.LoopRunning, f.loop.State())
	assert.Equal(t, 1, f.step())
}

func TestLoopInitFailureIsPermanent(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTapUnsupported(true)

	f.loop.OnPlay()
	assert.Equal(t, domain.LoopInert, f.loop.State())
	assert.Equal(t, 0, f.scheduler.Pending())

	f.engine.SetTapUnsupported(false)
	f.loop.OnPlay()
	assert.Equal(t, domain.LoopInert, f.loop.State())
	assert.Equal(t, 0, f.scheduler.Requests())

	// no retry happened, so the tap is still free
	_, err := f.engine.OutputTap()
	assert.NoError(t, err)
}

func TestLoopDoubleAttachIsInert(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.OutputTap()
	require.NoError(t, err)

	f.loop.OnPlay()
	assert.Equal(t, domain.LoopInert, f.loop.State())
	assert.NotPanics(t, f.loop.OnResize)
}

func TestLoopResizeBetweenFrames(t *testing.T) {
	f := newFixture(t)
	f.loop.OnPlay()
	f.step()
	presents := f.sink.presents

	f.size.set(640, 200)
	f.loop.OnResize()
	w, h := f.loop.SurfaceSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 200, h)
	assert.Equal(t, presents+1, f.sink.presents)

	// same size again is a no-op
	f.loop.OnResize()
	assert.Equal(t, presents+1, f.sink.presents)
}

func TestLoopDrawFollowsContainer(t *testing.T) {
	f := newFixture(t)
	f.loop.OnPlay()

	f.size.set(128, 64)
	f.step()
	w, h := f.loop.SurfaceSize()
	assert.Equal(t, 128, w)
	assert.Equal(t, 64, h)
	assert.Equal(t, image.Rect(0, 0, 128, 64), f.sink.last.Bounds())
}

func TestLoopDrawsAudio(t *testing.T) {
	f := newFixture(t)
	h, err := f.engine.Load("/music/tone.wav")
	require.NoError(t, err)
	require.NoError(t, f.engine.Play(h))

	f.loop.OnPlay()
	for i := 0; i < 10; i++ {
		f.step()
	}

	painted := 0
	img := f.sink.last
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			painted++
		}
	}
	assert.Greater(t, painted, 0)
}

func TestLoopFollowsBus(t *testing.T) {
	f := newFixture(t)
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	defer bus.Close()
	f.loop.Subscribe(bus)

	track := domain.NewTrackInfo("/music/a.mp3")
	bus.Publish(domain.NewTrackStartedEvent(track))
	assert.Equal(t, domain.LoopRunning, f.loop.State())

	bus.Publish(domain.NewTrackPausedEvent(track, time.Second))
	assert.Equal(t, domain.LoopPaused, f.loop.State())
	assert.Equal(t, 0, f.scheduler.Pending())

	bus.Publish(domain.NewTrackStartedEvent(track))
	bus.Publish(domain.NewTrackStoppedEvent(track))
	assert.Equal(t, domain.LoopPaused, f.loop.State())

	f.loop.Close()
	assert.Equal(t, 0, bus.SubscriberCount())
	assert.Equal(t, domain.LoopInert, f.loop.State())

	bus.Publish(domain.NewTrackStartedEvent(track))
	assert.Equal(t, 0, f.scheduler.Pending())
}

func TestLoopSetAnchor(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, AnchorTop, f.loop.Anchor())
	f.loop.SetAnchor(AnchorBottom)
	assert.Equal(t, AnchorBottom, f.loop.Anchor())
}
