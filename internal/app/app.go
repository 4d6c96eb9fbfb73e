// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/tunedeck/internal/adapter/audio/gopxl"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/frame"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/repository/prefs"
	fyneui "github.com/tejashwikalptaru/tunedeck/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
	"github.com/tejashwikalptaru/tunedeck/internal/service"
	"github.com/tejashwikalptaru/tunedeck/internal/visualizer"
)

// Application is the root application structure that holds all dependencies.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus    *eventbus.SyncEventBus
	audioEngine ports.AudioEngine
	scheduler   *frame.Ticker

	// Repositories
	favoritesRepo   ports.FavoritesRepository
	themeRepo       ports.ThemeRepository
	historyRepo     ports.HistoryRepository
	preferencesRepo ports.PreferencesRepository

	// Services
	playbackService  *service.PlaybackService
	playlistService  *service.PlaylistService
	libraryService   *service.LibraryService
	favoritesService *service.FavoritesService
	speedService     *service.SpeedService
	themeService     *service.ThemeService

	// UI
	visualizer *visualizer.Loop
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
}

// NewApplication creates a new application with all dependencies wired.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create an audio engine
	if err := app.initAudio(config); err != nil {
		return nil, err
	}

	// Step 5: Create repositories
	store := app.fyneApp.Preferences()
	app.favoritesRepo = prefs.NewFavoritesRepository(store, app.logger.With(slog.String("repository", "favorites")))
	app.themeRepo = prefs.NewThemeRepository(store)
	app.historyRepo = prefs.NewHistoryRepository(store)
	app.preferencesRepo = prefs.NewPreferencesRepository(store)

	// Step 6: Create services
	toast := fyneui.NewToast(config.ToastDuration)
	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.audioEngine,
		app.eventBus,
		config.UpdateInterval,
	)
	app.playlistService = service.NewPlaylistService(
		app.logger.With(slog.String("service", "playlist")),
		app.playbackService,
		app.historyRepo,
		app.eventBus,
	)
	app.libraryService = service.NewLibraryService(
		app.logger.With(slog.String("service", "library")),
		app.metadataReader(config),
		app.eventBus,
	)
	app.favoritesService = service.NewFavoritesService(
		app.logger.With(slog.String("service", "favorites")),
		app.favoritesRepo,
		app.eventBus,
	)
	app.speedService = service.NewSpeedService(
		app.logger.With(slog.String("service", "speed")),
		app.playbackService,
		toast,
		config.SpeedOptions,
	)
	app.themeService = service.NewThemeService(
		app.logger.With(slog.String("service", "theme")),
		app.themeRepo,
		app.eventBus,
	)

	// Step 7: Create UI and the visualizer bound to it
	app.mainWindow = fyneui.NewMainWindow(
		app.fyneApp,
		app.logger.With(slog.String("component", "window")),
		app.speedService.Options(),
		toast,
	)
	app.scheduler = frame.NewTicker(config.FPS, fyne.Do)
	app.visualizer = visualizer.NewLoop(
		app.logger.With(slog.String("component", "visualizer")),
		app.audioEngine,
		app.scheduler,
		app.mainWindow.Spectrum(),
		app.mainWindow.Spectrum(),
		config.Visualizer,
	)
	app.visualizer.Subscribe(app.eventBus)
	app.mainWindow.BindVisualizer(app.visualizer)

	// Step 8: Create Presenter and wire with UI. The presenter pushes the
	// stored theme to the window before it is shown.
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		fyneui.Services{
			Playback:    app.playbackService,
			Playlist:    app.playlistService,
			Library:     app.libraryService,
			Favorites:   app.favoritesService,
			Speed:       app.speedService,
			Theme:       app.themeService,
			Preferences: app.preferencesRepo,
		},
		app.eventBus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	// Step 9: Load saved state
	if err := app.loadSavedState(); err != nil {
		// Non-fatal - just log and continue
		app.logger.Warn("failed to load saved state", slog.Any("error", err))
	}

	// Save state even when quitting via Cmd+Q or the window close button
	app.mainWindow.SetOnClosed(func() {
		if err := app.saveState(); err != nil {
			app.logger.Warn("failed to save state on close", slog.Any("error", err))
		}
	})

	return app, nil
}

func (a *Application) initAudio(config Config) error {
	if config.UseMockAudio {
		engine := mock.NewEngine()
		engine.SetLogger(a.logger.With(slog.String("engine", "mock")))
		if err := engine.Initialize(config.SampleRate, config.BufferSize); err != nil {
			return fmt.Errorf("failed to initialize audio engine: %w", err)
		}
		a.audioEngine = engine
		return nil
	}

	engine := gopxl.NewEngine(a.logger.With(slog.String("engine", "gopxl")))
	if err := engine.Initialize(config.SampleRate, config.BufferSize); err != nil {
		return fmt.Errorf("failed to initialize audio engine: %w", err)
	}
	a.audioEngine = engine
	return nil
}

// metadataReader returns the tag reader for real audio; the mock engine
// runs without one, so tracks keep their file names.
func (a *Application) metadataReader(config Config) ports.MetadataReader {
	if config.UseMockAudio {
		return nil
	}
	return gopxl.NewMetadataReader()
}

// loadSavedState restores the application state from the previous session.
func (a *Application) loadSavedState() error {
	volume, err := a.preferencesRepo.LoadVolume()
	if err != nil {
		a.logger.Warn("failed to load volume", slog.Any("error", err))
	} else if err := a.playbackService.SetVolume(volume); err != nil {
		a.logger.Warn("failed to set volume", slog.Any("error", err))
	}

	if err := a.playlistService.LoadQueue(); err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}
	return nil
}

// saveState persists the current application state.
func (a *Application) saveState() error {
	if err := a.playlistService.SaveQueue(); err != nil {
		return fmt.Errorf("failed to save queue: %w", err)
	}
	return nil
}

// Run shows the window and blocks until it is closed.
func (a *Application) Run() error {
	a.logger.Info("TuneDeck started")
	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if err := a.saveState(); err != nil {
			a.logger.Warn("failed to save state", slog.Any("error", err))
		}

		// Stop drawing before the engine goes away
		a.visualizer.Close()
		a.scheduler.Close()
		a.presenter.Shutdown()

		// Shutdown services (in reverse order of creation)
		a.favoritesService.Shutdown()
		if err := a.libraryService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown library service", slog.Any("error", err))
		}
		if err := a.playlistService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown playlist service", slog.Any("error", err))
		}
		if err := a.playbackService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown playback service", slog.Any("error", err))
		}
		if err := a.audioEngine.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown audio engine", slog.Any("error", err))
		}

		a.mainWindow.Toast().Stop()
		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}
		a.logger.Info("application shutdown complete")
	})
	return nil
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetServices returns the services the presenter drives.
func (a *Application) GetServices() fyneui.Services {
	return fyneui.Services{
		Playback:    a.playbackService,
		Playlist:    a.playlistService,
		Library:     a.libraryService,
		Favorites:   a.favoritesService,
		Speed:       a.speedService,
		Theme:       a.themeService,
		Preferences: a.preferencesRepo,
	}
}

// GetPresenter returns the presenter.
func (a *Application) GetPresenter() *fyneui.Presenter {
	return a.presenter
}

// GetMainWindow returns the main window.
func (a *Application) GetMainWindow() *fyneui.MainWindow {
	return a.mainWindow
}

// GetVisualizer returns the visualizer loop.
func (a *Application) GetVisualizer() *visualizer.Loop {
	return a.visualizer
}
