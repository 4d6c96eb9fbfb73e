// Package ports define interfaces for dependency inversion.
// These interfaces keep the services independent of fyne and of the audio library.
package ports

import (
	"time"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

// AudioEngine is the interface for audio playback engines.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioEngine interface {
	OutputTapper

	// Initialize opens the output device at the given sample rate.
	// bufferSize is the output latency expressed as a duration.
	//
	// Returns an error if initialization fails.
	Initialize(sampleRate int, bufferSize time.Duration) error

	// Shutdown releases all audio engine resources.
	Shutdown() error

	// IsInitialized returns true if the engine has been successfully initialized.
	IsInitialized() bool

	// Load decodes the header of an audio file and returns a handle to it.
	// Loading a new track replaces the previous one on the output.
	Load(filePath string) (domain.TrackHandle, error)

	// Unload releases resources for a previously loaded track.
	Unload(handle domain.TrackHandle) error

	// Play starts or resumes playback of the specified track.
	Play(handle domain.TrackHandle) error

	// Pause pauses playback, keeping the position.
	Pause(handle domain.TrackHandle) error

	// Stop stops playback and unloads the track.
	Stop(handle domain.TrackHandle) error

	// Status returns the current playback status of the specified track.
	// A track that reached its end reports StatusStopped.
	Status(handle domain.TrackHandle) (domain.PlaybackStatus, error)

	// Position returns the current playback position within the track.
	Position(handle domain.TrackHandle) (time.Duration, error)

	// Duration returns the total duration of the specified track.
	Duration(handle domain.TrackHandle) (time.Duration, error)

	// SetVolume sets the playback volume, 0.0 (silent) to 1.0 (full volume).
	SetVolume(handle domain.TrackHandle, volume float64) error

	// Volume returns the current volume level for the specified track.
	Volume(handle domain.TrackHandle) (float64, error)

	// SetPlaybackRate changes the speed of the loaded track. The rate is kept
	// and applied to every track loaded afterwards. handle may be
	// InvalidTrackHandle when nothing is loaded.
	SetPlaybackRate(handle domain.TrackHandle, rate float64) error

	// PlaybackRate returns the rate currently applied to the output.
	PlaybackRate() float64
}

// MetadataReader extracts tags from audio files without loading them for playback.
type MetadataReader interface {
	// ReadMetadata returns a TrackInfo with tags filled in where available.
	ReadMetadata(filePath string) (*domain.TrackInfo, error)
}

// SampleSource exposes the most recent mono samples sent to the output.
type SampleSource interface {
	// ReadSamples copies the latest len(dst) samples into dst in
	// chronological order and returns how many were written.
	ReadSamples(dst []float64) int

	// SampleRate returns the rate of the samples in Hz.
	SampleRate() int
}

// OutputTapper is implemented by engines that can feed an analyser.
type OutputTapper interface {
	// OutputTap attaches to the engine output. It can be attached once;
	// a second call returns domain.ErrSourceAlreadyAttached. Engines without
	// capture support return domain.ErrAnalysisUnsupported.
	OutputTap() (SampleSource, error)
}
