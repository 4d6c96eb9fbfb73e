// Package gopxl implements the AudioEngine on top of gopxl/beep.
//
// Every track decodes into a voice (resampler, volume, pause control). One
// Bus streams the current voice, a Tap wraps the Bus, and the Tap is the
// only streamer ever handed to the speaker. The analyser reads from the Tap.
package gopxl

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

const (
	// DefaultSampleRate is used when Initialize gets a non-positive rate.
	DefaultSampleRate = 44100
	// DefaultBufferSize is the speaker buffer length.
	DefaultBufferSize = 100 * time.Millisecond
)

// output is the sound device. The speaker package in production, a null
// device in tests.
type output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (speakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}

// Engine plays one track at a time through the system speaker.
//
// Thread-safety: This implementation is thread-safe. Engine state is guarded
// by mu, voice state by the bus lock that the speaker goroutine also takes.
type Engine struct {
	logger *slog.Logger
	out    output

	mu          sync.RWMutex
	initialized bool
	sampleRate  beep.SampleRate
	tracks      map[domain.TrackHandle]*track
	nextHandle  domain.TrackHandle
	rate        float64
	bus         *Bus
	tap         *Tap
	tapTaken    bool
}

type track struct {
	filePath string
	voice    *voice
	status   domain.PlaybackStatus
}

// NewEngine creates an engine that plays through the system speaker.
func NewEngine(logger *slog.Logger) *Engine {
	return newEngine(logger, speakerOutput{})
}

func newEngine(logger *slog.Logger, out output) *Engine {
	return &Engine{
		logger:     logger,
		out:        out,
		tracks:     make(map[domain.TrackHandle]*track),
		nextHandle: 1,
		rate:       domain.DefaultPlaybackRate,
	}
}

// Initialize opens the speaker and starts streaming silence through the tap.
func (e *Engine) Initialize(sampleRate int, bufferSize time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return domain.ErrAlreadyInitialized
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	sr := beep.SampleRate(sampleRate)
	if err := e.out.Init(sr, sr.N(bufferSize)); err != nil {
		return domain.NewAudioEngineError("initialize", "", "cannot open speaker", err)
	}

	e.sampleRate = sr
	e.bus = &Bus{}
	e.tap = NewTap(e.bus, sr, DefaultTapSize)
	e.out.Play(e.tap)
	e.initialized = true

	e.logger.Info("audio engine initialized",
		slog.Int("sample_rate", sampleRate),
		slog.Duration("buffer", bufferSize))
	return nil
}

// Shutdown closes the speaker and every loaded track.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}

	e.out.Close()
	for handle, t := range e.tracks {
		if err := t.voice.stream.Close(); err != nil {
			e.logger.Warn("failed to close track", slog.Int64("handle", int64(handle)), slog.Any("error", err))
		}
	}
	e.tracks = make(map[domain.TrackHandle]*track)
	e.initialized = false
	return nil
}

// IsInitialized returns true if the engine is initialized.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// Load decodes filePath. Playback starts with Play.
func (e *Engine) Load(filePath string) (domain.TrackHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.InvalidTrackHandle, domain.ErrNotInitialized
	}
	if filePath == "" {
		return domain.InvalidTrackHandle, domain.ErrFileNotFound
	}

	stream, format, err := decode(filePath)
	if err != nil {
		return domain.InvalidTrackHandle, err
	}

	handle := e.nextHandle
	e.nextHandle++
	e.tracks[handle] = &track{
		filePath: filePath,
		voice:    newVoice(stream, format, e.sampleRate, e.rate),
		status:   domain.StatusStopped,
	}

	e.logger.Debug("track decoded",
		slog.String("file_path", filePath),
		slog.Int("sample_rate", int(format.SampleRate)),
		slog.Int("channels", format.NumChannels))
	return handle, nil
}

func (e *Engine) track(handle domain.TrackHandle) (*track, error) {
	if !e.initialized {
		return nil, domain.ErrNotInitialized
	}
	t, ok := e.tracks[handle]
	if !ok {
		return nil, domain.ErrInvalidTrackHandle
	}
	return t, nil
}

// Unload releases a track, stopping it if it is playing.
func (e *Engine) Unload(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unloadInternal(handle)
}

func (e *Engine) unloadInternal(handle domain.TrackHandle) error {
	t, err := e.track(handle)
	if err != nil {
		return err
	}
	e.bus.with(func() {
		if e.bus.current == t.voice {
			e.bus.current = nil
		}
	})
	delete(e.tracks, handle)
	if err := t.voice.stream.Close(); err != nil {
		return domain.NewAudioEngineError("unload", t.filePath, "cannot close stream", err)
	}
	return nil
}

// Play makes handle the current voice and starts it. A finished or stopped
// track restarts from the beginning.
func (e *Engine) Play(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.track(handle)
	if err != nil {
		return err
	}

	var seekErr error
	e.bus.with(func() {
		if t.voice.finished || t.status == domain.StatusStopped {
			seekErr = t.voice.rewind(e.rate)
		}
		if prev := e.bus.current; prev != nil && prev != t.voice {
			prev.ctrl.Paused = true
		}
		e.bus.current = t.voice
		t.voice.ctrl.Paused = false
	})
	if seekErr != nil {
		return domain.NewAudioEngineError("play", t.filePath, "cannot rewind", seekErr)
	}

	for _, other := range e.tracks {
		if other != t && other.status == domain.StatusPlaying {
			other.status = domain.StatusPaused
		}
	}
	t.status = domain.StatusPlaying
	return nil
}

// Pause pauses the track. Pausing a track that is not playing is a no-op.
func (e *Engine) Pause(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.track(handle)
	if err != nil {
		return err
	}
	if e.statusLocked(t) != domain.StatusPlaying {
		return nil
	}
	e.bus.with(func() { t.voice.ctrl.Paused = true })
	t.status = domain.StatusPaused
	return nil
}

// Stop stops and unloads the track.
func (e *Engine) Stop(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unloadInternal(handle)
}

// statusLocked folds the end of stream into the status.
func (e *Engine) statusLocked(t *track) domain.PlaybackStatus {
	finished := false
	e.bus.with(func() { finished = t.voice.finished })
	if finished {
		return domain.StatusStopped
	}
	return t.status
}

// Status returns the playback status. A track that played to its end is Stopped.
func (e *Engine) Status(handle domain.TrackHandle) (domain.PlaybackStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.track(handle)
	if err != nil {
		return domain.StatusStopped, err
	}
	return e.statusLocked(t), nil
}

// Position returns the position in track time, independent of the speed.
func (e *Engine) Position(handle domain.TrackHandle) (time.Duration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.track(handle)
	if err != nil {
		return 0, err
	}
	var pos int
	e.bus.with(func() { pos = t.voice.stream.Position() })
	return t.voice.format.SampleRate.D(pos), nil
}

// Duration returns the track length.
func (e *Engine) Duration(handle domain.TrackHandle) (time.Duration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.track(handle)
	if err != nil {
		return 0, err
	}
	return t.voice.format.SampleRate.D(t.voice.stream.Len()), nil
}

// SetVolume sets a linear volume between 0 and 1.
func (e *Engine) SetVolume(handle domain.TrackHandle, volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.track(handle)
	if err != nil {
		return err
	}
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}
	e.bus.with(func() { t.voice.setVolume(volume) })
	return nil
}

// Volume returns the linear volume.
func (e *Engine) Volume(handle domain.TrackHandle) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.track(handle)
	if err != nil {
		return 0, err
	}
	var v float64
	e.bus.with(func() { v = t.voice.linear })
	return v, nil
}

// SetPlaybackRate changes the speed of every loaded track and of later ones.
// handle may be InvalidTrackHandle when nothing is loaded.
func (e *Engine) SetPlaybackRate(handle domain.TrackHandle, rate float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}
	if !domain.ValidPlaybackRate(rate) {
		return domain.ErrInvalidPlaybackRate
	}
	if handle != domain.InvalidTrackHandle {
		if _, ok := e.tracks[handle]; !ok {
			return domain.ErrInvalidTrackHandle
		}
	}

	e.rate = rate
	e.bus.with(func() {
		for _, t := range e.tracks {
			t.voice.setRate(rate)
		}
	})
	return nil
}

// PlaybackRate returns the current speed.
func (e *Engine) PlaybackRate() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rate
}

// OutputTap hands out the speaker tap. There is only one.
func (e *Engine) OutputTap() (ports.SampleSource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, domain.NewAudioEngineError("tap", "", "engine not initialized", domain.ErrAnalysisUnsupported)
	}
	if e.tapTaken {
		return nil, domain.ErrSourceAlreadyAttached
	}
	e.tapTaken = true
	return e.tap, nil
}

var _ ports.AudioEngine = (*Engine)(nil)
