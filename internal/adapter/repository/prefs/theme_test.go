package prefs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

func TestThemeRepository_DefaultsToDark(t *testing.T) {
	repo := NewThemeRepository(newTestPrefs())

	theme, err := repo.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestThemeRepository_RoundTrip(t *testing.T) {
	prefs := newTestPrefs()
	repo := NewThemeRepository(prefs)

	require.NoError(t, repo.SaveTheme(domain.ThemeLight))
	assert.Equal(t, "light", prefs.String(KeyTheme))

	theme, err := NewThemeRepository(prefs).LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)
}

func TestThemeRepository_UnknownStoredValue(t *testing.T) {
	prefs := newTestPrefs()
	prefs.SetString(KeyTheme, "sepia")

	theme, err := NewThemeRepository(prefs).LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestThemeRepository_RejectsUnknownTheme(t *testing.T) {
	err := NewThemeRepository(newTestPrefs()).SaveTheme("sepia")

	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
}
