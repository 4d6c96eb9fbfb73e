// Package ports define the view interfaces driven by the presenter.
package ports

import (
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

// Notifier shows short-lived messages.
type Notifier interface {
	// ShowToast displays message and hides it after a fixed delay.
	// A newer message replaces one that is still visible.
	ShowToast(message string)
}

// UI is the interface the presenter drives.
//
// Thread-safety: implementations marshal onto the UI goroutine themselves,
// so the presenter can call them from event handlers.
type UI interface {
	Notifier

	// SetTrackInfo updates the title area.
	SetTrackInfo(track domain.TrackInfo)

	// SetPlayState updates the play/pause button.
	SetPlayState(playing bool)

	// SetProgress updates the position slider and time labels, in seconds.
	SetProgress(current, total float64)

	// SetVolume updates the volume slider (0.0 to 1.0).
	SetVolume(volume float64)

	// SetPlaybackRate selects the matching speed option.
	SetPlaybackRate(rate float64)

	// SetPlaylist replaces the playlist entries.
	SetPlaylist(tracks []domain.TrackInfo, current int)

	// SetFavorites updates the per-entry icons and the favorite button.
	// pulse is true when the current track was just added.
	SetFavorites(favorites []string, current domain.CurrentTrack, currentIsFavorite, pulse bool)

	// ApplyTheme switches the palette and the background gradient.
	ApplyTheme(theme domain.Theme)

	// ShowError displays an error dialog.
	ShowError(title, message string)
}
