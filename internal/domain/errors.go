// Package domain defines domain-specific errors.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTrackNotFound is returned when a requested track cannot be found.
	ErrTrackNotFound = errors.New("track not found")

	// ErrInvalidTrackHandle is returned when an invalid track handle is used.
	ErrInvalidTrackHandle = errors.New("invalid track handle")

	// ErrPlaylistEmpty is returned when an operation requires a non-empty playlist.
	ErrPlaylistEmpty = errors.New("playlist is empty")

	// ErrEndOfPlaylist is returned when trying to move past the last entry.
	ErrEndOfPlaylist = errors.New("end of playlist reached")

	// ErrStartOfPlaylist is returned when trying to move before the first entry.
	ErrStartOfPlaylist = errors.New("start of playlist reached")

	// ErrInvalidIndex is returned when a playlist index is out of bounds.
	ErrInvalidIndex = errors.New("invalid playlist index")

	// ErrInvalidVolume is returned when the volume is out of valid range (0.0-1.0).
	ErrInvalidVolume = errors.New("invalid volume: must be between 0.0 and 1.0")

	// ErrInvalidPlaybackRate is returned for zero, negative or non-finite rates.
	ErrInvalidPlaybackRate = errors.New("invalid playback rate: must be a positive number")

	// ErrNotInitialized is returned when an operation is attempted on an uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrAlreadyInitialized is returned when attempting to initialize twice.
	ErrAlreadyInitialized = errors.New("component already initialized")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrFileNotFound is returned when a file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrDuplicateTrack is returned when a path is already in the playlist.
	ErrDuplicateTrack = errors.New("track already exists in playlist")

	// ErrScanCancelled is returned when a folder scan is canceled.
	ErrScanCancelled = errors.New("scan cancelled")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrNoTrackSelected is returned by favorites when there is no current track.
	ErrNoTrackSelected = errors.New("no track selected")

	// ErrSourceAlreadyAttached is returned when the output tap is requested twice.
	ErrSourceAlreadyAttached = errors.New("audio source already attached to an analyser")

	// ErrAnalysisUnsupported is returned when an engine cannot expose its output.
	ErrAnalysisUnsupported = errors.New("audio analysis not supported")

	// ErrInvalidFFTSize is returned for transform sizes that are not a power of two in range.
	ErrInvalidFFTSize = errors.New("fft size must be a power of two between 32 and 32768")

	// ErrContextClosed is returned when resuming a closed audio context.
	ErrContextClosed = errors.New("audio context closed")
)

// AudioEngineError represents an error from the audio engine.
type AudioEngineError struct {
	Op      string // Operation that failed (e.g., "load", "play", "stop")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *AudioEngineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio engine %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("audio engine %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioEngineError) Unwrap() error {
	return e.Err
}

// NewAudioEngineError creates a new AudioEngineError.
func NewAudioEngineError(op, path, message string, err error) *AudioEngineError {
	return &AudioEngineError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// AnalysisError is returned when the audio graph used by the visualizer cannot be built.
type AnalysisError struct {
	Stage string // "source", "analyser" or "context"
	Err   error
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("audio graph %s setup failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewAnalysisError creates a new AnalysisError.
func NewAnalysisError(stage string, err error) *AnalysisError {
	return &AnalysisError{Stage: stage, Err: err}
}

// RepositoryError represents an error from a repository.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "favorites", "theme")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a rejected input value.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
	Err     error  // Sentinel describing the rule (optional)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the sentinel, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlaybackService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
