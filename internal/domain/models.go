// Package domain contains the core models of the TuneDeck player.
// Nothing in here depends on a UI toolkit or an audio library.
package domain

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TrackInfo describes a single audio file known to the player.
type TrackInfo struct {
	// ID is a stable identifier for the track inside one session
	ID string

	// FilePath is the absolute path to the audio file
	FilePath string

	// FileName is the base name of the file. Favorites are keyed by it.
	FileName string

	// Title is the song title (from tags or the file name)
	Title string

	// Artist is the performing artist name
	Artist string

	// Album is the album name
	Album string

	// Duration is the total length of the track
	Duration time.Duration

	// FileFormat is the lower-case extension without the dot
	FileFormat string
}

// NewTrackInfo builds a TrackInfo from a path, filling in the derived fields.
func NewTrackInfo(path string) TrackInfo {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	format := ""
	if len(ext) > 1 {
		format = strings.ToLower(ext[1:])
	}
	return TrackInfo{
		ID:         path,
		FilePath:   path,
		FileName:   name,
		Title:      name[:len(name)-len(ext)],
		FileFormat: format,
	}
}

// DisplayName returns the title, falling back to the file name.
func (t TrackInfo) DisplayName() string {
	if t.Title != "" {
		if t.Artist != "" {
			return t.Artist + " - " + t.Title
		}
		return t.Title
	}
	return t.FileName
}

// CurrentTrack is the currently selected playlist entry.
// Index is -1 when nothing is selected.
type CurrentTrack struct {
	Index    int
	FileName string
}

// NoTrack is the CurrentTrack value used before anything is selected.
var NoTrack = CurrentTrack{Index: -1}

// Selected reports whether a track is selected.
func (c CurrentTrack) Selected() bool {
	return c.Index >= 0 && c.FileName != ""
}

// PlaybackStatus represents the current state of the audio engine for a track.
type PlaybackStatus int

const (
	// StatusStopped indicates playback is stopped
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates playback is paused
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlaybackState is the snapshot the playback service hands to callers.
type PlaybackState struct {
	Track    *TrackInfo
	Status   PlaybackStatus
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Rate     float64
}

// TrackHandle is an opaque reference to a track loaded in the audio engine.
type TrackHandle int64

// InvalidTrackHandle represents an invalid or uninitialized track handle.
const InvalidTrackHandle TrackHandle = 0

// FrequencySample holds one byte magnitude per frequency bin.
// It is refreshed in place every frame; its length is fixed at analysis setup.
type FrequencySample []uint8

// LoopState is the lifecycle state of the visualizer loop.
type LoopState int

const (
	// LoopUninitialized means no audio graph has been built yet
	LoopUninitialized LoopState = iota

	// LoopRunning means a frame request is pending or being served
	LoopRunning

	// LoopPaused means the graph exists but no frame is scheduled
	LoopPaused

	// LoopInert means graph construction failed; the loop ignores further events
	LoopInert
)

// String returns the state name.
func (s LoopState) String() string {
	switch s {
	case LoopUninitialized:
		return "uninitialized"
	case LoopRunning:
		return "running"
	case LoopPaused:
		return "paused"
	case LoopInert:
		return "inert"
	default:
		return "unknown"
	}
}

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when nothing has been stored yet.
const DefaultTheme = ThemeDark

// ParseTheme maps a stored string to a Theme. Anything unknown is dark.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// DefaultPlaybackRate is the normal speed.
const DefaultPlaybackRate = 1.0

// SpeedOptions are the rates offered by the speed selector.
var SpeedOptions = []float64{0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

// ValidPlaybackRate reports whether rate can be applied to the engine.
func ValidPlaybackRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// FormatRate renders a rate the way the selector and the toast show it ("1.5x").
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "x"
}
