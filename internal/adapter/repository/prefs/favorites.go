// Package prefs implements the repositories on top of fyne.Preferences,
// the flat key-value store that survives between sessions.
package prefs

import (
	"encoding/json"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// KeyFavorites holds the favorites as a JSON array of file names.
const KeyFavorites = "musicFavorites"

// FavoritesRepository implements ports.FavoritesRepository.
//
// Thread-safe: All operations protected by sync.RWMutex.
type FavoritesRepository struct {
	prefs  fyne.Preferences
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewFavoritesRepository creates a favorites repository over prefs.
func NewFavoritesRepository(prefs fyne.Preferences, logger *slog.Logger) *FavoritesRepository {
	return &FavoritesRepository{
		prefs:  prefs,
		logger: logger,
	}
}

// LoadFavorites returns the stored names. A payload that is not a JSON array
// of strings is logged and treated as empty. Duplicates are dropped.
func (r *FavoritesRepository) LoadFavorites() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.prefs.String(KeyFavorites)
	if data == "" {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		r.logger.Warn("ignoring malformed favorites payload",
			slog.String("key", KeyFavorites),
			slog.String("error", err.Error()))
		return []string{}, nil
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup || name == "" {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// SaveFavorites replaces the stored list.
func (r *FavoritesRepository) SaveFavorites(names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return domain.NewRepositoryError("save", "favorites", "failed to marshal favorites", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.SetString(KeyFavorites, string(data))
	return nil
}

var _ ports.FavoritesRepository = (*FavoritesRepository)(nil)
