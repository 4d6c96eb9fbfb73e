package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/testutil"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	config := DefaultConfig()
	config.UseMockAudio = true
	config.FPS = 200
	config.UpdateInterval = time.Hour
	config.TestFyneApp = test.NewTempApp(t)

	app, err := NewApplication(config)
	require.NoError(t, err)
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t)
	defer func() { assert.NoError(t, app.Shutdown()) }()

	svc := app.GetServices()
	assert.NotNil(t, svc.Playback)
	assert.NotNil(t, svc.Playlist)
	assert.NotNil(t, svc.Library)
	assert.NotNil(t, svc.Favorites)
	assert.NotNil(t, svc.Speed)
	assert.NotNil(t, svc.Theme)

	assert.NotNil(t, app.GetEventBus())
	assert.NotNil(t, app.GetFyneApp())
	assert.NotNil(t, app.GetPresenter())
	assert.NotNil(t, app.GetMainWindow())
	assert.Equal(t, domain.LoopUninitialized, app.GetVisualizer().State())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "com.tunedeck.app", config.AppID)
	assert.Equal(t, "TuneDeck", config.AppName)
	assert.Equal(t, 44100, config.SampleRate)
	assert.False(t, config.UseMockAudio)
	assert.Equal(t, 60, config.FPS)
	assert.Equal(t, domain.SpeedOptions, config.SpeedOptions)
	assert.Equal(t, 3*time.Second, config.ToastDuration)
}

func TestApplicationLifecycle(t *testing.T) {
	app := newTestApplication(t)

	assert.NoError(t, app.Shutdown())
	// Shutdown again should not panic
	assert.NoError(t, app.Shutdown())
	assert.Equal(t, domain.LoopInert, app.GetVisualizer().State())
}

func TestApplication_PlayingDrivesVisualizer(t *testing.T) {
	app := newTestApplication(t)
	defer func() { assert.NoError(t, app.Shutdown()) }()

	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))

	require.NoError(t, app.GetPresenter().OnFileOpened(path))
	assert.Equal(t, domain.LoopRunning, app.GetVisualizer().State())
	assert.Eventually(t, func() bool {
		return app.GetVisualizer().Frames() > 0
	}, 2*time.Second, 10*time.Millisecond)

	app.GetPresenter().OnPlayClicked()
	assert.Equal(t, domain.LoopPaused, app.GetVisualizer().State())
}

func TestApplication_RestoresThemeAndQueue(t *testing.T) {
	fyneApp := test.NewTempApp(t)
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))

	config := DefaultConfig()
	config.UseMockAudio = true
	config.UpdateInterval = time.Hour
	config.TestFyneApp = fyneApp

	first, err := NewApplication(config)
	require.NoError(t, err)
	require.NoError(t, first.GetPresenter().OnFileOpened(path))
	first.GetPresenter().OnThemeToggled()
	first.GetPresenter().OnVolumeChanged(30)
	require.NoError(t, first.Shutdown())

	second, err := NewApplication(config)
	require.NoError(t, err)
	defer func() { assert.NoError(t, second.Shutdown()) }()

	assert.Equal(t, domain.ThemeLight, second.GetMainWindow().CurrentTheme())
	assert.Equal(t, 1, second.GetServices().Playlist.Len())
	assert.Equal(t, 0, second.GetServices().Playlist.CurrentTrack().Index)
	assert.InDelta(t, 0.3, second.GetServices().Playback.Volume(), 1e-9)
	assert.Nil(t, second.GetServices().Playback.GetState().Track, "restoring does not start playback")
}

func TestApplication_NoLeaks(t *testing.T) {
	config := DefaultConfig()
	config.UseMockAudio = true
	config.TestFyneApp = test.NewTempApp(t)
	opts := testutil.IgnoreFyneGoroutines()

	app, err := NewApplication(config)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))
	require.NoError(t, app.GetPresenter().OnFileOpened(path))

	require.NoError(t, app.Shutdown())
	testutil.VerifyNoLeaks(t, opts...)
}

func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Contains(t, info.FullString(), "TuneDeck")

	info.GitTag = "v1.2.3"
	assert.Contains(t, info.FullString(), "v1.2.3")
}
