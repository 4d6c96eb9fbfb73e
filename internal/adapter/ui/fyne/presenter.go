// Package fyne provides the Fyne UI adapter: the main window, the playlist
// view, the toast overlay and the presenter that connects them to the services.
package fyne

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
	"github.com/tejashwikalptaru/tunedeck/internal/service"
)

// Services groups the use cases the presenter drives.
type Services struct {
	Playback    *service.PlaybackService
	Playlist    *service.PlaylistService
	Library     *service.LibraryService
	Favorites   *service.FavoritesService
	Speed       *service.SpeedService
	Theme       *service.ThemeService
	Preferences ports.PreferencesRepository
}

// Presenter implements the Presenter pattern (MVP architecture).
// It maps bus events to view updates and view commands to service calls.
//
// Thread-safety: event handlers may run on any goroutine; the view marshals
// onto the UI goroutine itself.
type Presenter struct {
	logger *slog.Logger
	svc    Services
	bus    ports.EventBus
	view   ports.UI

	mu     sync.Mutex
	subs   []domain.SubscriptionID
	closed bool
}

// NewPresenter creates a presenter, subscribes it to the bus and pushes the
// current state to the view.
func NewPresenter(logger *slog.Logger, svc Services, bus ports.EventBus, view ports.UI) *Presenter {
	p := &Presenter{
		logger: logger,
		svc:    svc,
		bus:    bus,
		view:   view,
	}
	p.subscribeToEvents()
	p.syncInitialState()
	return p
}

func (p *Presenter) subscribeToEvents() {
	handlers := []struct {
		eventType domain.EventType
		handler   domain.EventHandler
	}{
		{domain.EventTrackLoaded, p.onTrackLoaded},
		{domain.EventTrackStarted, p.onTrackStarted},
		{domain.EventTrackPaused, p.onTrackPaused},
		{domain.EventTrackStopped, p.onTrackStopped},
		{domain.EventTrackCompleted, p.onTrackCompleted},
		{domain.EventTrackProgress, p.onTrackProgress},
		{domain.EventTrackError, p.onTrackError},
		{domain.EventVolumeChanged, p.onVolumeChanged},
		{domain.EventPlaybackRateChanged, p.onPlaybackRateChanged},
		{domain.EventPlaylistUpdated, p.onPlaylistUpdated},
		{domain.EventTrackSelected, p.onTrackSelected},
		{domain.EventFavoritesChanged, p.onFavoritesChanged},
		{domain.EventThemeChanged, p.onThemeChanged},
		{domain.EventScanStarted, p.onScanStarted},
		{domain.EventScanCompleted, p.onScanCompleted},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range handlers {
		p.subs = append(p.subs, p.bus.Subscribe(h.eventType, h.handler))
	}
}

// syncInitialState pushes the service state to a freshly built view.
func (p *Presenter) syncInitialState() {
	state := p.svc.Playback.GetState()

	p.view.SetVolume(state.Volume)
	p.view.SetPlaybackRate(state.Rate)
	p.view.ApplyTheme(p.svc.Theme.Current())
	p.view.SetPlaylist(p.svc.Playlist.Tracks(), p.svc.Playlist.CurrentTrack().Index)

	current := p.svc.Favorites.Current()
	p.view.SetFavorites(p.svc.Favorites.Favorites(), current, p.svc.Favorites.IsFavorite(current.FileName), false)

	if state.Track != nil {
		p.view.SetTrackInfo(*state.Track)
		p.view.SetProgress(state.Position.Seconds(), state.Duration.Seconds())
	}
	p.view.SetPlayState(state.Status == domain.StatusPlaying)
}

// Event handlers

func (p *Presenter) onTrackLoaded(event domain.Event) {
	e, ok := event.(domain.TrackLoadedEvent)
	if !ok {
		return
	}
	p.view.SetTrackInfo(e.Track)
	p.view.SetProgress(0, e.Duration.Seconds())
}

func (p *Presenter) onTrackStarted(domain.Event) {
	p.view.SetPlayState(true)
}

func (p *Presenter) onTrackPaused(domain.Event) {
	p.view.SetPlayState(false)
}

func (p *Presenter) onTrackStopped(domain.Event) {
	p.view.SetPlayState(false)
	p.view.SetProgress(0, 0)
}

func (p *Presenter) onTrackCompleted(domain.Event) {
	p.view.SetPlayState(false)
}

func (p *Presenter) onTrackProgress(event domain.Event) {
	e, ok := event.(domain.TrackProgressEvent)
	if !ok {
		return
	}
	p.view.SetProgress(e.Position.Seconds(), e.Duration.Seconds())
}

func (p *Presenter) onTrackError(event domain.Event) {
	e, ok := event.(domain.TrackErrorEvent)
	if !ok {
		return
	}
	p.view.ShowError("Playback Error", fmt.Sprintf("Cannot play %s: %v", e.Track.FileName, e.Error))
}

func (p *Presenter) onVolumeChanged(event domain.Event) {
	e, ok := event.(domain.VolumeChangedEvent)
	if !ok {
		return
	}
	p.view.SetVolume(e.Volume)
}

func (p *Presenter) onPlaybackRateChanged(event domain.Event) {
	e, ok := event.(domain.PlaybackRateChangedEvent)
	if !ok {
		return
	}
	p.view.SetPlaybackRate(e.Rate)
}

func (p *Presenter) onPlaylistUpdated(event domain.Event) {
	e, ok := event.(domain.PlaylistUpdatedEvent)
	if !ok {
		return
	}
	p.view.SetPlaylist(e.Tracks, e.Index)
}

func (p *Presenter) onTrackSelected(event domain.Event) {
	e, ok := event.(domain.TrackSelectedEvent)
	if !ok {
		return
	}
	p.view.SetPlaylist(p.svc.Playlist.Tracks(), e.Current.Index)
	if e.Current.Index < 0 {
		p.view.SetTrackInfo(domain.TrackInfo{})
	}
}

func (p *Presenter) onFavoritesChanged(event domain.Event) {
	e, ok := event.(domain.FavoritesChangedEvent)
	if !ok {
		return
	}
	p.view.SetFavorites(e.Favorites, e.Current, e.CurrentIsFavorite, e.Added)
}

func (p *Presenter) onThemeChanged(event domain.Event) {
	e, ok := event.(domain.ThemeChangedEvent)
	if !ok {
		return
	}
	p.view.ApplyTheme(e.Theme)
}

func (p *Presenter) onScanStarted(event domain.Event) {
	e, ok := event.(domain.ScanStartedEvent)
	if !ok {
		return
	}
	p.view.ShowToast("Scanning " + e.Path)
}

func (p *Presenter) onScanCompleted(event domain.Event) {
	e, ok := event.(domain.ScanCompletedEvent)
	if !ok {
		return
	}
	p.view.ShowToast(fmt.Sprintf("Found %d tracks", len(e.Tracks)))
}

// UI Command handlers (called by UI)

// OnPlayClicked toggles playback. With nothing loaded it starts the selected
// playlist entry, or the first one.
func (p *Presenter) OnPlayClicked() {
	state := p.svc.Playback.GetState()
	if state.Track == nil {
		if p.svc.Playlist.Len() == 0 {
			return
		}
		index := max(p.svc.Playlist.CurrentTrack().Index, 0)
		p.report("Playback Error", "start playback", p.svc.Playlist.PlayTrackAt(index))
		return
	}
	p.report("Playback Error", "toggle playback", p.svc.Playback.TogglePlayPause())
}

// OnStopClicked handles the stop button.
func (p *Presenter) OnStopClicked() {
	p.report("Playback Error", "stop playback", p.svc.Playback.Stop())
}

// OnNextClicked handles the next button.
func (p *Presenter) OnNextClicked() {
	p.step(p.svc.Playlist.Next(), "End of playlist")
}

// OnPreviousClicked handles the previous button.
func (p *Presenter) OnPreviousClicked() {
	p.step(p.svc.Playlist.Previous(), "Start of playlist")
}

func (p *Presenter) step(err error, boundary string) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEndOfPlaylist), errors.Is(err, domain.ErrStartOfPlaylist):
		p.view.ShowToast(boundary)
	case errors.Is(err, domain.ErrPlaylistEmpty):
		p.view.ShowToast("Playlist is empty")
	default:
		p.report("Playlist Error", "change track", err)
	}
}

// OnVolumeChanged handles the volume slider, 0 to 100.
func (p *Presenter) OnVolumeChanged(volume float64) {
	normalized := volume / 100.0
	if err := p.svc.Playback.SetVolume(normalized); err != nil {
		p.logger.Warn("volume change failed", slog.Any("error", err))
		return
	}
	if p.svc.Preferences != nil {
		if err := p.svc.Preferences.SaveVolume(normalized); err != nil {
			p.logger.Warn("failed to save volume", slog.Any("error", err))
		}
	}
}

// OnFavoriteClicked toggles the current track in the favorites set.
func (p *Presenter) OnFavoriteClicked() {
	if _, err := p.svc.Favorites.Toggle(); err != nil {
		if errors.Is(err, domain.ErrNoTrackSelected) {
			return
		}
		p.report("Favorites Error", "toggle favorite", err)
	}
}

// OnSpeedSelected applies a playback rate from the speed selector.
func (p *Presenter) OnSpeedSelected(rate float64) {
	p.report("Playback Error", "change speed", p.svc.Speed.SetRate(rate))
}

// OnThemeToggled switches between the light and dark themes.
func (p *Presenter) OnThemeToggled() {
	if _, err := p.svc.Theme.Toggle(); err != nil {
		p.logger.Warn("failed to persist theme", slog.Any("error", err))
	}
}

// OnFileOpened adds a file to the playlist and plays it. A file that is
// already listed is played from its existing entry.
func (p *Presenter) OnFileOpened(filePath string) error {
	track, err := p.svc.Library.ExtractMetadata(filePath)
	if err != nil {
		return err
	}

	err = p.svc.Playlist.AddTrack(track, true)
	if errors.Is(err, domain.ErrDuplicateTrack) {
		for i, t := range p.svc.Playlist.Tracks() {
			if t.FilePath == track.FilePath {
				return p.svc.Playlist.PlayTrackAt(i)
			}
		}
	}
	return err
}

// OnFolderOpened scans a folder and appends what it finds. A cancelled scan
// still adds the tracks found so far.
func (p *Presenter) OnFolderOpened(ctx context.Context, folderPath string) error {
	tracks, err := p.svc.Library.ScanFolder(ctx, folderPath)
	if err != nil && !errors.Is(err, domain.ErrScanCancelled) {
		return err
	}
	if _, addErr := p.svc.Playlist.AddTracks(tracks, false); addErr != nil {
		return addErr
	}
	return err
}

// OnPlaylistTrackSelected plays the playlist entry at index.
func (p *Presenter) OnPlaylistTrackSelected(index int) error {
	return p.svc.Playlist.PlayTrackAt(index)
}

// OnClearPlaylist stops playback and empties the playlist.
func (p *Presenter) OnClearPlaylist() {
	p.report("Playlist Error", "clear playlist", p.svc.Playlist.Clear())
}

// IsFavorite reports whether a file name is in the favorites set.
func (p *Presenter) IsFavorite(fileName string) bool {
	return p.svc.Favorites.IsFavorite(fileName)
}

// SpeedOptions returns the rates offered by the speed selector.
func (p *Presenter) SpeedOptions() []float64 {
	return p.svc.Speed.Options()
}

func (p *Presenter) report(title, action string, err error) {
	if err == nil {
		return
	}
	p.logger.Error(action+" failed", slog.Any("error", err))
	p.view.ShowError(title, fmt.Sprintf("Failed to %s: %v", action, err))
}

// Shutdown unsubscribes from the bus. It's safe to call multiple times.
func (p *Presenter) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, id := range p.subs {
		p.bus.Unsubscribe(id)
	}
	p.subs = nil
}
