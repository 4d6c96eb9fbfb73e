package prefs

import (
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

const keyVolume = "preferences.volume"

// PreferencesRepository implements ports.PreferencesRepository.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a preferences repository over prefs.
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{prefs: prefs}
}

// SaveVolume persists the volume level.
func (r *PreferencesRepository) SaveVolume(volume float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.SetFloat(keyVolume, volume)
	return nil
}

// LoadVolume returns the saved volume, 1.0 when unset.
func (r *PreferencesRepository) LoadVolume() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.prefs.FloatWithFallback(keyVolume, 1.0), nil
}

// Clear removes the saved volume.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.RemoveValue(keyVolume)
	return nil
}

var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
