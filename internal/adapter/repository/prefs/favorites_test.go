package prefs

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
)

func newTestPrefs() fyne.Preferences {
	return test.NewApp().Preferences()
}

func TestFavoritesRepository_EmptyByDefault(t *testing.T) {
	repo := NewFavoritesRepository(newTestPrefs(), logger.NewTestLogger())

	names, err := repo.LoadFavorites()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestFavoritesRepository_SaveAndLoad(t *testing.T) {
	prefs := newTestPrefs()
	repo := NewFavoritesRepository(prefs, logger.NewTestLogger())

	require.NoError(t, repo.SaveFavorites([]string{"b.mp3", "a.mp3"}))
	assert.JSONEq(t, `["b.mp3","a.mp3"]`, prefs.String(KeyFavorites))

	names, err := repo.LoadFavorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mp3", "a.mp3"}, names)
}

func TestFavoritesRepository_SaveNilStoresEmptyArray(t *testing.T) {
	prefs := newTestPrefs()
	repo := NewFavoritesRepository(prefs, logger.NewTestLogger())

	require.NoError(t, repo.SaveFavorites(nil))
	assert.Equal(t, "[]", prefs.String(KeyFavorites))
}

func TestFavoritesRepository_MalformedPayloadIsEmpty(t *testing.T) {
	payloads := []string{
		`{"a.mp3":true}`,
		`"a.mp3"`,
		`[1,2,3]`,
		`not json`,
		`null`,
	}
	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			prefs := newTestPrefs()
			prefs.SetString(KeyFavorites, payload)
			repo := NewFavoritesRepository(prefs, logger.NewTestLogger())

			names, err := repo.LoadFavorites()
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestFavoritesRepository_DropsDuplicates(t *testing.T) {
	prefs := newTestPrefs()
	prefs.SetString(KeyFavorites, `["a.mp3","b.mp3","a.mp3",""]`)
	repo := NewFavoritesRepository(prefs, logger.NewTestLogger())

	names, err := repo.LoadFavorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, names)
}
