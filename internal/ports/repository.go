// Package ports define repository interfaces over the key-value store.
package ports

import (
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

// FavoritesRepository persists the list of favorited track file names.
//
// Thread-safety: Implementations must be thread-safe.
type FavoritesRepository interface {
	// LoadFavorites returns the stored names in insertion order.
	// Nothing stored, or a payload that is not a list of strings, yields an empty list.
	LoadFavorites() ([]string, error)

	// SaveFavorites replaces the stored list.
	SaveFavorites(names []string) error
}

// ThemeRepository persists the theme preference.
type ThemeRepository interface {
	// LoadTheme returns the stored theme, or domain.DefaultTheme when unset.
	LoadTheme() (domain.Theme, error)

	// SaveTheme persists the theme.
	SaveTheme(theme domain.Theme) error
}

// PreferencesRepository persists the remaining player settings.
type PreferencesRepository interface {
	// SaveVolume persists the volume level.
	SaveVolume(volume float64) error

	// LoadVolume returns the saved volume, 1.0 when unset.
	LoadVolume() (float64, error)

	// Clear removes all saved preferences handled by this repository.
	Clear() error
}

// HistoryRepository persists the playlist between sessions.
type HistoryRepository interface {
	// SaveQueue persists the playlist entries.
	SaveQueue(tracks []domain.TrackInfo) error

	// LoadQueue returns the saved entries, empty when nothing was saved.
	LoadQueue() ([]domain.TrackInfo, error)

	// SaveCurrentIndex persists the selected index.
	SaveCurrentIndex(index int) error

	// LoadCurrentIndex returns the saved index, -1 when unset.
	LoadCurrentIndex() (int, error)

	// Clear removes the saved playlist.
	Clear() error
}
