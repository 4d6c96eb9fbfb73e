package fyne

import (
	"image/color"
	"testing"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
)

func newTestWindow(t *testing.T) *MainWindow {
	t.Helper()
	app := test.NewTempApp(t)
	w := NewMainWindow(app, logger.NewTestLogger(), domain.SpeedOptions, NewToast(time.Minute))
	t.Cleanup(w.Close)
	return w
}

func TestMainWindow_TrackInfo(t *testing.T) {
	w := newTestWindow(t)
	assert.Equal(t, noTrackText, w.title.Text)

	track := domain.NewTrackInfo("/music/song.mp3")
	track.Artist = "Artist"
	w.SetTrackInfo(track)
	assert.Equal(t, "Artist - song", w.title.Text)

	w.SetTrackInfo(domain.TrackInfo{})
	assert.Equal(t, noTrackText, w.title.Text)
}

func TestMainWindow_FavoriteButtonFollowsSelection(t *testing.T) {
	w := newTestWindow(t)
	assert.True(t, w.favoriteButton.Disabled())

	current := domain.CurrentTrack{Index: 0, FileName: "song.mp3"}
	w.SetFavorites([]string{"song.mp3"}, current, true, true)
	assert.False(t, w.favoriteButton.Disabled())

	w.SetFavorites(nil, domain.NoTrack, false, false)
	assert.True(t, w.favoriteButton.Disabled())
}

func TestMainWindow_PlaybackRateSelectsOption(t *testing.T) {
	w := newTestWindow(t)
	assert.Equal(t, "1x", w.speedSelect.Selected)

	w.SetPlaybackRate(1.5)
	assert.Equal(t, "1.5x", w.speedSelect.Selected)

	w.SetPlaybackRate(3)
	assert.Equal(t, "1.5x", w.speedSelect.Selected, "unlisted rates leave the selection alone")
}

func TestMainWindow_ApplyTheme(t *testing.T) {
	w := newTestWindow(t)

	w.ApplyTheme(domain.ThemeLight)
	top, bottom := backgroundColors(domain.ThemeLight)
	assert.Equal(t, top, w.background.StartColor)
	assert.Equal(t, bottom, w.background.EndColor)
	assert.Equal(t, domain.ThemeLight, w.CurrentTheme())

	w.ApplyTheme(domain.ThemeDark)
	top, _ = backgroundColors(domain.ThemeDark)
	assert.Equal(t, top, w.background.StartColor)
	assert.NotEqual(t, color.Transparent, w.background.StartColor)
}

func TestMainWindow_ProgressAndVolume(t *testing.T) {
	w := newTestWindow(t)

	w.SetProgress(75, 180)
	assert.Equal(t, "01:15", w.currentTime.Text)
	assert.Equal(t, "03:00", w.endTime.Text)
	assert.InDelta(t, 75, w.progressSlider.Value, 1e-9)

	w.SetVolume(0.4)
	assert.InDelta(t, 40, w.volumeSlider.Value, 1e-9)
}

func TestMainWindow_PlaylistAndSearch(t *testing.T) {
	w := newTestWindow(t)
	tracks := []domain.TrackInfo{
		domain.NewTrackInfo("/music/alpha.mp3"),
		domain.NewTrackInfo("/music/beta.mp3"),
		domain.NewTrackInfo("/music/alphabet.flac"),
	}
	w.SetPlaylist(tracks, 1)
	assert.Equal(t, 3, w.playlist.Len())

	w.playlist.searchEntry.SetText("alpha")
	assert.Equal(t, 2, w.playlist.Len())
	assert.Equal(t, 2, w.playlist.findActualIndex(1))
	assert.Equal(t, -1, w.playlist.findFilteredIndex(1))

	w.playlist.searchEntry.SetText("")
	assert.Equal(t, 3, w.playlist.Len())
}

func TestMainWindow_SpeedSelectionWithPresenter(t *testing.T) {
	f := newPresenterFixture(t)
	w := NewMainWindow(fyneapp.CurrentApp(), logger.NewTestLogger(), domain.SpeedOptions, NewToast(time.Minute))
	t.Cleanup(w.Close)
	p := NewPresenter(logger.NewTestLogger(), f.svc, f.bus, w)
	t.Cleanup(p.Shutdown)
	w.SetPresenter(p)

	w.speedSelect.SetSelected("1.5x")

	assert.InDelta(t, 1.5, f.svc.Playback.PlaybackRate(), 1e-9)
	assert.Equal(t, "1.5x", w.speedSelect.Selected)
	// the window's own rate echo must not reach the presenter again
	require.Equal(t, []string{"Playback speed: 1.5x"}, f.view.snapshot().toasts)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", formatTime(-3))
	assert.Equal(t, "02:05", formatTime(125.7))
}
