// Package service holds the TuneDeck use cases: playback, playlist, library
// scanning, favorites, playback speed and theme.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// DefaultVolume is applied until a stored volume is restored.
const DefaultVolume = 0.8

// DefaultUpdateInterval is how often progress is published while a track is loaded.
const DefaultUpdateInterval = 250 * time.Millisecond

// PlaybackService drives the audio engine for the current track.
//
// Events are published after the service lock is released, so handlers may
// call back into the service.
type PlaybackService struct {
	logger *slog.Logger
	engine ports.AudioEngine
	bus    ports.EventBus

	mu            sync.RWMutex
	currentTrack  *domain.TrackInfo
	currentHandle domain.TrackHandle
	volume        float64
	rate          float64
	manualStop    bool // set when the user stopped playback
	hasPlayed     bool

	updateInterval time.Duration
	stopUpdate     chan struct{}
	updateRunning  bool
	updateWg       sync.WaitGroup
}

// NewPlaybackService creates the service and starts its progress routine.
func NewPlaybackService(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
	updateInterval time.Duration,
) *PlaybackService {
	if updateInterval <= 0 {
		updateInterval = DefaultUpdateInterval
	}
	s := &PlaybackService{
		logger:         logger,
		engine:         engine,
		bus:            bus,
		currentHandle:  domain.InvalidTrackHandle,
		volume:         DefaultVolume,
		rate:           domain.DefaultPlaybackRate,
		updateInterval: updateInterval,
		stopUpdate:     make(chan struct{}),
	}
	s.startUpdateRoutine()
	logger.Debug("playback service initialized", slog.Duration("update_interval", updateInterval))
	return s
}

// LoadTrack replaces the current track. The old track is stopped first.
func (s *PlaybackService) LoadTrack(track domain.TrackInfo) error {
	s.mu.Lock()
	stopped := s.releaseLocked(true)

	handle, err := s.engine.Load(track.FilePath)
	if err != nil {
		s.mu.Unlock()
		s.publish(stopped)
		s.logger.Warn("failed to load track", slog.String("file_path", track.FilePath), slog.Any("error", err))
		s.bus.Publish(domain.NewTrackErrorEvent(track, err))
		return err
	}

	if err := s.engine.SetVolume(handle, s.volume); err != nil {
		s.unloadQuietly(handle)
		s.mu.Unlock()
		s.publish(stopped)
		return err
	}

	duration, err := s.engine.Duration(handle)
	if err != nil {
		s.unloadQuietly(handle)
		s.mu.Unlock()
		s.publish(stopped)
		return err
	}
	if track.Duration == 0 {
		track.Duration = duration
	}

	s.currentTrack = &track
	s.currentHandle = handle
	s.manualStop = false
	s.hasPlayed = false
	s.mu.Unlock()

	s.logger.Debug("track loaded", slog.String("file_path", track.FilePath), slog.Duration("duration", duration))
	s.publish(stopped)
	s.bus.Publish(domain.NewTrackLoadedEvent(track, handle, duration))
	return nil
}

// Play starts or resumes the current track.
func (s *PlaybackService) Play() error {
	s.mu.Lock()
	if s.currentHandle == domain.InvalidTrackHandle {
		s.mu.Unlock()
		return domain.ErrNoTrackLoaded
	}

	status, err := s.engine.Status(s.currentHandle)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if status == domain.StatusPlaying {
		s.mu.Unlock()
		return nil
	}

	if err := s.engine.Play(s.currentHandle); err != nil {
		track := *s.currentTrack
		s.mu.Unlock()
		s.bus.Publish(domain.NewTrackErrorEvent(track, err))
		return err
	}
	s.manualStop = false
	s.hasPlayed = true
	track := *s.currentTrack
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackStartedEvent(track))
	return nil
}

// Pause pauses the current track.
func (s *PlaybackService) Pause() error {
	s.mu.Lock()
	if s.currentHandle == domain.InvalidTrackHandle {
		s.mu.Unlock()
		return domain.ErrNoTrackLoaded
	}

	position, err := s.engine.Position(s.currentHandle)
	if err != nil {
		position = 0
	}
	if err := s.engine.Pause(s.currentHandle); err != nil {
		s.mu.Unlock()
		return err
	}
	track := *s.currentTrack
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackPausedEvent(track, position))
	return nil
}

// TogglePlayPause pauses a playing track and plays anything else.
func (s *PlaybackService) TogglePlayPause() error {
	if s.GetState().Status == domain.StatusPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Stop stops and unloads the current track. Stopping with nothing loaded is a no-op.
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	if s.currentHandle == domain.InvalidTrackHandle {
		s.mu.Unlock()
		return nil
	}
	track := *s.currentTrack
	err := s.engine.Stop(s.currentHandle)
	s.currentHandle = domain.InvalidTrackHandle
	s.currentTrack = nil
	s.manualStop = true
	s.hasPlayed = false
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.bus.Publish(domain.NewTrackStoppedEvent(track))
	return nil
}

// releaseLocked stops the current track, if any, and returns the stop event to
// publish once the lock is gone. Caller holds s.mu.
func (s *PlaybackService) releaseLocked(notify bool) domain.Event {
	if s.currentHandle == domain.InvalidTrackHandle {
		return nil
	}
	track := *s.currentTrack
	if err := s.engine.Stop(s.currentHandle); err != nil {
		s.logger.Warn("failed to stop current track", slog.Any("error", err))
	}
	s.currentHandle = domain.InvalidTrackHandle
	s.currentTrack = nil
	s.hasPlayed = false
	if !notify {
		return nil
	}
	return domain.NewTrackStoppedEvent(track)
}

func (s *PlaybackService) unloadQuietly(handle domain.TrackHandle) {
	if err := s.engine.Unload(handle); err != nil {
		s.logger.Warn("failed to unload track", slog.Any("error", err))
	}
}

func (s *PlaybackService) publish(event domain.Event) {
	if event != nil {
		s.bus.Publish(event)
	}
}

// SetVolume sets the volume (0.0 to 1.0) for the current and later tracks.
func (s *PlaybackService) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.NewValidationError("volume", volume, "must be between 0 and 1", domain.ErrInvalidVolume)
	}

	s.mu.Lock()
	if s.currentHandle != domain.InvalidTrackHandle {
		if err := s.engine.SetVolume(s.currentHandle, volume); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.volume = volume
	s.mu.Unlock()

	s.bus.Publish(domain.NewVolumeChangedEvent(volume))
	return nil
}

// Volume returns the current volume.
func (s *PlaybackService) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SetPlaybackRate changes the speed of the current track and every later one.
func (s *PlaybackService) SetPlaybackRate(rate float64) error {
	if !domain.ValidPlaybackRate(rate) {
		return domain.NewValidationError("rate", rate, "must be a positive finite number", domain.ErrInvalidPlaybackRate)
	}

	s.mu.Lock()
	if err := s.engine.SetPlaybackRate(s.currentHandle, rate); err != nil {
		s.mu.Unlock()
		return domain.NewServiceError("PlaybackService", "SetPlaybackRate", "engine rejected rate", err)
	}
	s.rate = rate
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackRateChangedEvent(rate))
	return nil
}

// PlaybackRate returns the current rate.
func (s *PlaybackService) PlaybackRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// GetState returns a snapshot of the playback state.
func (s *PlaybackService) GetState() domain.PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.PlaybackState{
		Status: domain.StatusStopped,
		Volume: s.volume,
		Rate:   s.rate,
	}
	if s.currentTrack != nil {
		track := *s.currentTrack
		state.Track = &track
	}
	if s.currentHandle == domain.InvalidTrackHandle {
		return state
	}
	if status, err := s.engine.Status(s.currentHandle); err == nil {
		state.Status = status
	}
	if position, err := s.engine.Position(s.currentHandle); err == nil {
		state.Position = position
	}
	if duration, err := s.engine.Duration(s.currentHandle); err == nil {
		state.Duration = duration
	}
	return state
}

// Shutdown stops the progress routine and the current track.
func (s *PlaybackService) Shutdown() error {
	s.mu.Lock()
	if s.updateRunning {
		close(s.stopUpdate)
		s.updateRunning = false
	}
	s.mu.Unlock()

	s.updateWg.Wait()
	return s.Stop()
}

func (s *PlaybackService) startUpdateRoutine() {
	s.mu.Lock()
	if s.updateRunning {
		s.mu.Unlock()
		return
	}
	s.updateRunning = true
	s.updateWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopUpdate:
				return
			case <-ticker.C:
				s.publishProgressUpdate()
			}
		}
	}()
}

// publishProgressUpdate reports the position and detects a natural end.
func (s *PlaybackService) publishProgressUpdate() {
	s.mu.Lock()
	if s.currentHandle == domain.InvalidTrackHandle || s.currentTrack == nil {
		s.mu.Unlock()
		return
	}

	status, err := s.engine.Status(s.currentHandle)
	if err != nil {
		s.mu.Unlock()
		return
	}
	position, _ := s.engine.Position(s.currentHandle)
	duration, _ := s.engine.Duration(s.currentHandle)

	finished := status == domain.StatusStopped && !s.manualStop && s.hasPlayed
	track := *s.currentTrack
	if finished {
		// the engine already ended the stream, only our handle remains
		s.releaseLocked(false)
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackProgressEvent(position, duration))
	if finished {
		s.logger.Debug("track finished", slog.String("file_path", track.FilePath))
		s.bus.Publish(domain.NewTrackCompletedEvent(track))
		s.bus.Publish(domain.NewAutoNextEvent(track))
	}
}
