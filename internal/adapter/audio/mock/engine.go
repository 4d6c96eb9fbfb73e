// Package mock provides an in-memory AudioEngine for tests and for running
// the UI without an audio device.
package mock

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// DefaultTrackDuration is the simulated length of every loaded track.
const DefaultTrackDuration = 3 * time.Minute

// Engine simulates playback in memory. Its output tap produces a sine tone
// while a track is playing and silence otherwise.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	logger *slog.Logger

	mu          sync.RWMutex
	initialized bool
	sampleRate  int
	tracks      map[domain.TrackHandle]*mockTrack
	nextHandle  domain.TrackHandle
	rate        float64
	tap         *toneSource

	// failure switches for error scenarios
	failInitialize bool
	failLoad       bool
	failPlay       bool
	failRate       bool
	noTap          bool
}

type mockTrack struct {
	filePath string
	duration time.Duration
	position time.Duration
	volume   float64
	status   domain.PlaybackStatus
}

// NewEngine creates a new mock audio engine.
func NewEngine() *Engine {
	return &Engine{
		tracks:     make(map[domain.TrackHandle]*mockTrack),
		nextHandle: 1,
		rate:       domain.DefaultPlaybackRate,
		sampleRate: 44100,
	}
}

// SetLogger sets the logger for this engine.
func (m *Engine) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailInitialize makes Initialize fail.
func (m *Engine) SetFailInitialize(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failInitialize = fail
}

// SetFailLoad makes Load fail.
func (m *Engine) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetFailPlay makes Play fail.
func (m *Engine) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetFailPlaybackRate makes SetPlaybackRate fail.
func (m *Engine) SetFailPlaybackRate(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRate = fail
}

// SetTapUnsupported makes OutputTap report that analysis is unsupported.
func (m *Engine) SetTapUnsupported(unsupported bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noTap = unsupported
}

// Initialize initializes the mock audio engine.
func (m *Engine) Initialize(sampleRate int, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failInitialize {
		return domain.NewAudioEngineError("initialize", "", "mock initialization failed", nil)
	}
	if m.initialized {
		return domain.ErrAlreadyInitialized
	}
	if sampleRate > 0 {
		m.sampleRate = sampleRate
	}
	m.initialized = true
	return nil
}

// Shutdown shuts down the mock audio engine.
func (m *Engine) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}
	m.initialized = false
	m.tracks = make(map[domain.TrackHandle]*mockTrack)
	return nil
}

// IsInitialized returns true if the engine is initialized.
func (m *Engine) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Load registers a track with DefaultTrackDuration. The file is not opened.
func (m *Engine) Load(filePath string) (domain.TrackHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.InvalidTrackHandle, domain.ErrNotInitialized
	}
	if m.failLoad {
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", filePath, "mock load failed", nil)
	}
	if filePath == "" {
		return domain.InvalidTrackHandle, domain.ErrFileNotFound
	}

	handle := m.nextHandle
	m.nextHandle++
	m.tracks[handle] = &mockTrack{
		filePath: filePath,
		duration: DefaultTrackDuration,
		volume:   1.0,
		status:   domain.StatusStopped,
	}
	return handle, nil
}

func (m *Engine) track(handle domain.TrackHandle) (*mockTrack, error) {
	if !m.initialized {
		return nil, domain.ErrNotInitialized
	}
	t, ok := m.tracks[handle]
	if !ok {
		return nil, domain.ErrInvalidTrackHandle
	}
	return t, nil
}

// Unload forgets a track.
func (m *Engine) Unload(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.track(handle); err != nil {
		return err
	}
	delete(m.tracks, handle)
	return nil
}

// Play starts or resumes playback.
func (m *Engine) Play(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.track(handle)
	if err != nil {
		return err
	}
	if m.failPlay {
		return domain.NewAudioEngineError("play", t.filePath, "mock play failed", nil)
	}
	if t.status == domain.StatusStopped {
		t.position = 0
	}
	t.status = domain.StatusPlaying
	return nil
}

// Pause pauses playback.
func (m *Engine) Pause(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.track(handle)
	if err != nil {
		return err
	}
	if t.status == domain.StatusPlaying {
		t.status = domain.StatusPaused
	}
	return nil
}

// Stop stops playback and unloads the track.
func (m *Engine) Stop(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.track(handle); err != nil {
		return err
	}
	delete(m.tracks, handle)
	return nil
}

// Status returns the playback status.
func (m *Engine) Status(handle domain.TrackHandle) (domain.PlaybackStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.track(handle)
	if err != nil {
		return domain.StatusStopped, err
	}
	return t.status, nil
}

// Position returns the current playback position.
func (m *Engine) Position(handle domain.TrackHandle) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.track(handle)
	if err != nil {
		return 0, err
	}
	return t.position, nil
}

// Duration returns the total track duration.
func (m *Engine) Duration(handle domain.TrackHandle) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.track(handle)
	if err != nil {
		return 0, err
	}
	return t.duration, nil
}

// SetVolume sets the playback volume.
func (m *Engine) SetVolume(handle domain.TrackHandle, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.track(handle)
	if err != nil {
		return err
	}
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}
	t.volume = volume
	return nil
}

// Volume returns the current volume.
func (m *Engine) Volume(handle domain.TrackHandle) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.track(handle)
	if err != nil {
		return 0, err
	}
	return t.volume, nil
}

// SetPlaybackRate stores the rate; handle may be InvalidTrackHandle.
func (m *Engine) SetPlaybackRate(handle domain.TrackHandle, rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}
	if m.failRate {
		return domain.NewAudioEngineError("rate", "", "mock rate change failed", nil)
	}
	if !domain.ValidPlaybackRate(rate) {
		return domain.ErrInvalidPlaybackRate
	}
	if handle != domain.InvalidTrackHandle {
		if _, ok := m.tracks[handle]; !ok {
			return domain.ErrInvalidTrackHandle
		}
	}
	m.rate = rate
	return nil
}

// PlaybackRate returns the current rate.
func (m *Engine) PlaybackRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rate
}

// OutputTap returns the synthetic tone source. It can be taken once.
func (m *Engine) OutputTap() (ports.SampleSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.noTap {
		return nil, domain.ErrAnalysisUnsupported
	}
	if m.tap != nil {
		return nil, domain.ErrSourceAlreadyAttached
	}
	m.tap = &toneSource{engine: m}
	return m.tap, nil
}

// LoadedTracks returns the number of currently loaded tracks.
func (m *Engine) LoadedTracks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracks)
}

// SimulateProgress advances a playing track. Reaching the end stops it,
// which the playback service reports as a completed track.
func (m *Engine) SimulateProgress(handle domain.TrackHandle, delta time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.track(handle)
	if err != nil {
		return err
	}
	if t.status != domain.StatusPlaying {
		return fmt.Errorf("track is not playing")
	}
	t.position += time.Duration(float64(delta) * m.rate)
	if t.position >= t.duration {
		t.position = t.duration
		t.status = domain.StatusStopped
	}
	return nil
}

// loudness returns the volume of the playing track, 0 when nothing plays.
func (m *Engine) loudness() (float64, float64, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.tracks {
		if t.status == domain.StatusPlaying {
			return t.volume, m.rate, m.sampleRate
		}
	}
	return 0, m.rate, m.sampleRate
}

// toneSource generates a 440 Hz tone shifted by the playback rate.
type toneSource struct {
	engine *Engine

	mu    sync.Mutex
	phase int
}

func (s *toneSource) ReadSamples(dst []float64) int {
	volume, rate, sr := s.engine.loudness()

	s.mu.Lock()
	defer s.mu.Unlock()

	freq := 440 * rate
	for i := range dst {
		dst[i] = 0.5 * volume * math.Sin(2*math.Pi*freq*float64(s.phase+i)/float64(sr))
	}
	s.phase += len(dst)
	return len(dst)
}

func (s *toneSource) SampleRate() int {
	_, _, sr := s.engine.loudness()
	return sr
}

var _ ports.AudioEngine = (*Engine)(nil)
