// Package domain defines the events passed over the event bus.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

const (
	// Playback events
	EventTrackLoaded    EventType = "track.loaded"
	EventTrackStarted   EventType = "track.started"
	EventTrackPaused    EventType = "track.paused"
	EventTrackStopped   EventType = "track.stopped"
	EventTrackCompleted EventType = "track.completed"
	EventTrackProgress  EventType = "track.progress"
	EventTrackError     EventType = "track.error"
	EventAutoNext       EventType = "track.auto_next"

	EventVolumeChanged       EventType = "volume.changed"
	EventPlaybackRateChanged EventType = "playback.rate_changed"

	// Playlist events
	EventPlaylistUpdated EventType = "playlist.updated"
	EventTrackAdded      EventType = "playlist.track_added"
	EventTrackSelected   EventType = "playlist.track_selected"

	EventFavoritesChanged EventType = "favorites.changed"
	EventThemeChanged     EventType = "theme.changed"

	// Library scanning events
	EventScanStarted   EventType = "scan.started"
	EventScanCompleted EventType = "scan.completed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides the timestamp shared by all events.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackLoadedEvent is published when a track is loaded into the engine.
type TrackLoadedEvent struct {
	baseEvent
	Track    TrackInfo
	Handle   TrackHandle
	Duration time.Duration
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType { return EventTrackLoaded }

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track TrackInfo, handle TrackHandle, duration time.Duration) TrackLoadedEvent {
	return TrackLoadedEvent{baseEvent: newBaseEvent(), Track: track, Handle: handle, Duration: duration}
}

// TrackStartedEvent is the "play" notification.
type TrackStartedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType { return EventTrackStarted }

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track TrackInfo) TrackStartedEvent {
	return TrackStartedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackPausedEvent is the "pause" notification.
type TrackPausedEvent struct {
	baseEvent
	Track    TrackInfo
	Position time.Duration
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType { return EventTrackPaused }

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track TrackInfo, position time.Duration) TrackPausedEvent {
	return TrackPausedEvent{baseEvent: newBaseEvent(), Track: track, Position: position}
}

// TrackStoppedEvent is published when playback is stopped by the user.
type TrackStoppedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType { return EventTrackStopped }

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(track TrackInfo) TrackStoppedEvent {
	return TrackStoppedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackCompletedEvent is the "ended" notification.
type TrackCompletedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackCompletedEvent) Type() EventType { return EventTrackCompleted }

// NewTrackCompletedEvent creates a new TrackCompletedEvent.
func NewTrackCompletedEvent(track TrackInfo) TrackCompletedEvent {
	return TrackCompletedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackProgressEvent is published periodically during playback.
type TrackProgressEvent struct {
	baseEvent
	Position time.Duration
	Duration time.Duration
}

// Type returns the event type.
func (e TrackProgressEvent) Type() EventType { return EventTrackProgress }

// NewTrackProgressEvent creates a new TrackProgressEvent.
func NewTrackProgressEvent(position, duration time.Duration) TrackProgressEvent {
	return TrackProgressEvent{baseEvent: newBaseEvent(), Position: position, Duration: duration}
}

// TrackErrorEvent is published when a track cannot be loaded or played.
type TrackErrorEvent struct {
	baseEvent
	Track TrackInfo
	Error error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType { return EventTrackError }

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(track TrackInfo, err error) TrackErrorEvent {
	return TrackErrorEvent{baseEvent: newBaseEvent(), Track: track, Error: err}
}

// AutoNextEvent asks the playlist to advance after a track finished.
type AutoNextEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e AutoNextEvent) Type() EventType { return EventAutoNext }

// NewAutoNextEvent creates a new AutoNextEvent.
func NewAutoNextEvent(track TrackInfo) AutoNextEvent {
	return AutoNextEvent{baseEvent: newBaseEvent(), Track: track}
}

// VolumeChangedEvent is published when the volume changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64 // 0.0 to 1.0
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType { return EventVolumeChanged }

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{baseEvent: newBaseEvent(), Volume: volume}
}

// PlaybackRateChangedEvent is published after the engine accepted a new rate.
type PlaybackRateChangedEvent struct {
	baseEvent
	Rate float64
}

// Type returns the event type.
func (e PlaybackRateChangedEvent) Type() EventType { return EventPlaybackRateChanged }

// NewPlaybackRateChangedEvent creates a new PlaybackRateChangedEvent.
func NewPlaybackRateChangedEvent(rate float64) PlaybackRateChangedEvent {
	return PlaybackRateChangedEvent{baseEvent: newBaseEvent(), Rate: rate}
}

// PlaylistUpdatedEvent carries the whole playlist after a bulk change.
type PlaylistUpdatedEvent struct {
	baseEvent
	Tracks []TrackInfo
	Index  int
}

// Type returns the event type.
func (e PlaylistUpdatedEvent) Type() EventType { return EventPlaylistUpdated }

// NewPlaylistUpdatedEvent creates a new PlaylistUpdatedEvent.
func NewPlaylistUpdatedEvent(tracks []TrackInfo, index int) PlaylistUpdatedEvent {
	return PlaylistUpdatedEvent{baseEvent: newBaseEvent(), Tracks: tracks, Index: index}
}

// TrackAddedEvent is the playlist "track added" notification.
type TrackAddedEvent struct {
	baseEvent
	Track TrackInfo
	Index int
}

// Type returns the event type.
func (e TrackAddedEvent) Type() EventType { return EventTrackAdded }

// NewTrackAddedEvent creates a new TrackAddedEvent.
func NewTrackAddedEvent(track TrackInfo, index int) TrackAddedEvent {
	return TrackAddedEvent{baseEvent: newBaseEvent(), Track: track, Index: index}
}

// TrackSelectedEvent is published when the current playlist entry changes.
type TrackSelectedEvent struct {
	baseEvent
	Current CurrentTrack
	Track   TrackInfo
}

// Type returns the event type.
func (e TrackSelectedEvent) Type() EventType { return EventTrackSelected }

// NewTrackSelectedEvent creates a new TrackSelectedEvent.
func NewTrackSelectedEvent(track TrackInfo, index int) TrackSelectedEvent {
	return TrackSelectedEvent{
		baseEvent: newBaseEvent(),
		Current:   CurrentTrack{Index: index, FileName: track.FileName},
		Track:     track,
	}
}

// FavoritesChangedEvent is published after the favorites set changed or the
// current track changed, so views can refresh icons and the favorite button.
type FavoritesChangedEvent struct {
	baseEvent
	Favorites         []string
	Current           CurrentTrack
	CurrentIsFavorite bool
	// Added is true when the change added the current track
	Added bool
}

// Type returns the event type.
func (e FavoritesChangedEvent) Type() EventType { return EventFavoritesChanged }

// NewFavoritesChangedEvent creates a new FavoritesChangedEvent.
func NewFavoritesChangedEvent(favorites []string, current CurrentTrack, currentIsFavorite, added bool) FavoritesChangedEvent {
	return FavoritesChangedEvent{
		baseEvent:         newBaseEvent(),
		Favorites:         favorites,
		Current:           current,
		CurrentIsFavorite: currentIsFavorite,
		Added:             added,
	}
}

// ThemeChangedEvent is published after the theme was applied.
type ThemeChangedEvent struct {
	baseEvent
	Theme Theme
}

// Type returns the event type.
func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }

// NewThemeChangedEvent creates a new ThemeChangedEvent.
func NewThemeChangedEvent(theme Theme) ThemeChangedEvent {
	return ThemeChangedEvent{baseEvent: newBaseEvent(), Theme: theme}
}

// ScanStartedEvent is published when a folder scan starts.
type ScanStartedEvent struct {
	baseEvent
	Path string
}

// Type returns the event type.
func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// NewScanStartedEvent creates a new ScanStartedEvent.
func NewScanStartedEvent(path string) ScanStartedEvent {
	return ScanStartedEvent{baseEvent: newBaseEvent(), Path: path}
}

// ScanCompletedEvent is published when a folder scan completes.
type ScanCompletedEvent struct {
	baseEvent
	Tracks []TrackInfo
}

// Type returns the event type.
func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// NewScanCompletedEvent creates a new ScanCompletedEvent.
func NewScanCompletedEvent(tracks []TrackInfo) ScanCompletedEvent {
	return ScanCompletedEvent{baseEvent: newBaseEvent(), Tracks: tracks}
}
