package prefs

import (
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// KeyTheme holds "light" or "dark".
const KeyTheme = "musicPlayerTheme"

// ThemeRepository implements ports.ThemeRepository.
type ThemeRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewThemeRepository creates a theme repository over prefs.
func NewThemeRepository(prefs fyne.Preferences) *ThemeRepository {
	return &ThemeRepository{prefs: prefs}
}

// LoadTheme returns the stored theme, dark when unset or unknown.
func (r *ThemeRepository) LoadTheme() (domain.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.ParseTheme(r.prefs.StringWithFallback(KeyTheme, string(domain.DefaultTheme))), nil
}

// SaveTheme persists the theme.
func (r *ThemeRepository) SaveTheme(theme domain.Theme) error {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return domain.NewValidationError("theme", theme, "must be light or dark", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.SetString(KeyTheme, string(theme))
	return nil
}

var _ ports.ThemeRepository = (*ThemeRepository)(nil)
