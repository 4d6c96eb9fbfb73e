package fyne

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/tunedeck/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
	"github.com/tejashwikalptaru/tunedeck/internal/visualizer"
	"github.com/tejashwikalptaru/tunedeck/res"
)

const (
	APPNAME = "TuneDeck"
	WIDTH   = 900
	HEIGHT  = 640
)

const noTrackText = "No track loaded"

// MainWindow is the main UI window implementing ports.UI.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger

	// UI components
	background     *canvas.LinearGradient
	title          *widget.Label
	subtitle       *widget.Label
	prevButton     *widget.Button
	playButton     *widget.Button
	stopButton     *widget.Button
	nextButton     *widget.Button
	favoriteButton *widget.Button
	favoritePulse  *canvas.Rectangle
	themeButton    *widget.Button
	speedSelect    *widget.Select
	currentTime    *widget.Label
	endTime        *widget.Label
	progressSlider *widget.Slider
	volumeSlider   *widget.Slider
	spectrum       *widgets.Spectrum
	playlist       *PlaylistView
	toast          *Toast

	speedLabels []string
	speedValues map[string]float64
	// syncing is set while the view updates widgets itself, so their
	// change callbacks do not echo back to the presenter
	syncing bool
	theme   domain.Theme

	scanCancel context.CancelFunc
	closeOnce  sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates the window. speedOptions fill the speed selector and
// toast is laid over the content; nil creates one with the default duration.
func NewMainWindow(app fyneapp.App, logger *slog.Logger, speedOptions []float64, toast *Toast) *MainWindow {
	if toast == nil {
		toast = NewToast(DefaultToastDuration)
	}
	w := &MainWindow{
		app:         app,
		logger:      logger,
		speedValues: make(map[string]float64, len(speedOptions)),
		theme:       domain.DefaultTheme,
		toast:       toast,
	}
	for _, rate := range speedOptions {
		label := domain.FormatRate(rate)
		w.speedLabels = append(w.speedLabels, label)
		w.speedValues[label] = rate
	}

	w.window = app.NewWindow(APPNAME)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(WIDTH, HEIGHT))
	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// BindVisualizer routes spectrum resizes to loop and adds the anchor menu.
func (w *MainWindow) BindVisualizer(loop *visualizer.Loop) {
	w.spectrum.SetOnResize(loop.OnResize)
	w.spectrum.SetOnSecondaryTap(func(pe *fyneapp.PointEvent) {
		label := "Bars from bottom"
		next := visualizer.AnchorBottom
		if loop.Anchor() == visualizer.AnchorBottom {
			label, next = "Bars from top", visualizer.AnchorTop
		}
		menu := fyneapp.NewMenu("", fyneapp.NewMenuItem(label, func() { loop.SetAnchor(next) }))
		widget.ShowPopUpMenuAtPosition(menu, w.window.Canvas(), pe.AbsolutePosition)
	})
}

// Spectrum returns the visualizer surface widget.
func (w *MainWindow) Spectrum() *widgets.Spectrum {
	return w.spectrum
}

// Toast returns the toast overlay.
func (w *MainWindow) Toast() *Toast {
	return w.toast
}

func (w *MainWindow) buildUI() {
	top, bottom := backgroundColors(w.theme)
	w.background = canvas.NewVerticalGradient(top, bottom)

	w.title = widget.NewLabel(noTrackText)
	w.title.Truncation = fyneapp.TextTruncateEllipsis
	w.title.TextStyle = fyneapp.TextStyle{Bold: true}
	w.subtitle = widget.NewLabel("")
	w.subtitle.Truncation = fyneapp.TextTruncateEllipsis

	w.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), nil)
	w.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), nil)

	w.favoriteButton = widget.NewButtonWithIcon("", widgets.FavoriteIcon(false), nil)
	w.favoriteButton.Disable()
	w.favoritePulse = canvas.NewRectangle(color.Transparent)
	w.favoritePulse.CornerRadius = theme.InputRadiusSize()

	w.themeButton = widget.NewButtonWithIcon("", theme.NewThemedResource(res.ResourceThemeSvg), nil)

	w.speedSelect = widget.NewSelect(w.speedLabels, nil)
	w.speedSelect.SetSelected(domain.FormatRate(domain.DefaultPlaybackRate))

	w.volumeSlider = widget.NewSlider(0, 100)
	w.volumeSlider.Orientation = widget.Horizontal
	volumeHolder := container.NewBorder(nil, nil, widget.NewIcon(theme.VolumeUpIcon()), nil, w.volumeSlider)

	w.progressSlider = widget.NewSlider(0, 1)
	w.currentTime = widget.NewLabel(formatTime(0))
	w.endTime = widget.NewLabel(formatTime(0))
	sliderHolder := container.NewBorder(nil, nil, w.currentTime, w.endTime, w.progressSlider)

	w.spectrum = widgets.NewSpectrum()
	w.playlist = NewPlaylistView(func(index int) {
		if w.presenter == nil {
			return
		}
		if err := w.presenter.OnPlaylistTrackSelected(index); err != nil {
			w.ShowError("Playlist Error", fmt.Sprintf("Failed to play track: %v", err))
		}
	})

	buttons := container.NewHBox(
		w.prevButton, w.playButton, w.stopButton, w.nextButton,
		container.NewStack(w.favoritePulse, w.favoriteButton),
	)
	extras := container.NewHBox(w.speedSelect, w.themeButton)
	controls := container.NewVBox(
		container.NewBorder(nil, nil, buttons, extras, volumeHolder),
		sliderHolder,
	)
	header := container.NewVBox(w.title, w.subtitle)
	player := container.NewBorder(header, controls, nil, nil, w.spectrum)

	split := container.NewHSplit(player, w.playlist.Content())
	split.Offset = 0.62

	w.window.SetContent(container.NewStack(
		w.background,
		container.NewPadded(split),
		w.toast.Container,
	))
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	w.playButton.OnTapped = w.presenter.OnPlayClicked
	w.stopButton.OnTapped = w.presenter.OnStopClicked
	w.nextButton.OnTapped = w.presenter.OnNextClicked
	w.prevButton.OnTapped = w.presenter.OnPreviousClicked
	w.favoriteButton.OnTapped = w.presenter.OnFavoriteClicked
	w.themeButton.OnTapped = w.presenter.OnThemeToggled

	w.volumeSlider.OnChanged = func(value float64) {
		if !w.syncing {
			w.presenter.OnVolumeChanged(value)
		}
	}
	w.speedSelect.OnChanged = func(label string) {
		rate, ok := w.speedValues[label]
		if ok && !w.syncing {
			w.presenter.OnSpeedSelected(rate)
		}
	}
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	separator := fyneapp.NewMenuItemSeparator()

	openFile := fyneapp.NewMenuItem("Open", w.handleOpenFile)
	openFolder := fyneapp.NewMenuItem("Open Folder", w.handleOpenFolder)
	clearPlaylist := fyneapp.NewMenuItem("Clear Playlist", func() {
		if w.presenter != nil {
			w.presenter.OnClearPlaylist()
		}
	})
	exitMenu := fyneapp.NewMenuItem("Exit", w.Close)
	fileMenu := fyneapp.NewMenu("File", openFile, openFolder, separator, clearPlaylist, separator, exitMenu)

	toggleTheme := fyneapp.NewMenuItem("Toggle Theme", func() {
		if w.presenter != nil {
			w.presenter.OnThemeToggled()
		}
	})
	viewMenu := fyneapp.NewMenu("View", toggleTheme)

	about := fyneapp.NewMenuItem("About", func() {
		dialog.ShowCustom("About "+APPNAME, "Close", widget.NewRichTextFromMarkdown(res.AboutContent), w.window)
	})
	helpMenu := fyneapp.NewMenu("Help", about)

	return []*fyneapp.Menu{fileMenu, viewMenu, helpMenu}
}

// handleOpenFile handles the "Open File" menu action.
func (w *MainWindow) handleOpenFile() {
	if w.presenter == nil {
		return
	}
	NewFileDialog(w.window, func(filePath string) {
		if err := w.presenter.OnFileOpened(filePath); err != nil {
			w.ShowError("Error", fmt.Sprintf("Failed to open file: %v", err))
		}
	}, w.logger).Show()
}

// handleOpenFolder handles the "Open Folder" menu action. The scan runs off
// the UI goroutine; closing the window cancels it.
func (w *MainWindow) handleOpenFolder() {
	if w.presenter == nil {
		return
	}
	NewFolderDialog(w.window, func(folderPath string) {
		ctx, cancel := context.WithCancel(context.Background())
		if w.scanCancel != nil {
			w.scanCancel()
		}
		w.scanCancel = cancel
		go func() {
			defer cancel()
			if err := w.presenter.OnFolderOpened(ctx, folderPath); err != nil {
				w.ShowError("Error", fmt.Sprintf("Failed to scan folder: %v", err))
			}
		}()
	}, w.logger).Show()
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	c := w.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyneapp.KeyUp, Modifier: desktop.AltModifier}, func(fyneapp.Shortcut) {
		w.volumeSlider.SetValue(math.Min(w.volumeSlider.Value+5, 100))
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyneapp.KeyDown, Modifier: desktop.AltModifier}, func(fyneapp.Shortcut) {
		w.volumeSlider.SetValue(math.Max(w.volumeSlider.Value-5, 0))
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyneapp.KeySpace, Modifier: fyneapp.KeyModifierShortcutDefault}, func(fyneapp.Shortcut) {
		w.presenter.OnPlayClicked()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyneapp.KeyRight, Modifier: desktop.AltModifier}, func(fyneapp.Shortcut) {
		w.presenter.OnNextClicked()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyneapp.KeyLeft, Modifier: desktop.AltModifier}, func(fyneapp.Shortcut) {
		w.presenter.OnPreviousClicked()
	})
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// SetOnClosed registers fn to run when the window closes.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// Close closes the window. It's safe to call multiple times.
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		if w.scanCancel != nil {
			w.scanCancel()
		}
		w.toast.Stop()
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// ports.UI implementation. Every method may be called from any goroutine.

// ShowToast shows a short message over the window.
func (w *MainWindow) ShowToast(message string) {
	w.toast.ShowToast(message)
}

// SetTrackInfo updates the title area.
func (w *MainWindow) SetTrackInfo(track domain.TrackInfo) {
	title := track.DisplayName()
	if track.FilePath == "" {
		title = noTrackText
	}
	subtitle := track.Album
	if subtitle == "" && track.FileFormat != "" {
		subtitle = track.FileName
	}
	fyneapp.Do(func() {
		w.title.SetText(title)
		w.subtitle.SetText(subtitle)
		w.window.SetTitle(APPNAME + " - " + title)
	})
}

// SetPlayState updates the play/pause button.
func (w *MainWindow) SetPlayState(playing bool) {
	icon := theme.MediaPlayIcon()
	if playing {
		icon = theme.MediaPauseIcon()
	}
	fyneapp.Do(func() {
		w.playButton.SetIcon(icon)
	})
}

// SetProgress updates the position slider and time labels.
func (w *MainWindow) SetProgress(current, total float64) {
	fyneapp.Do(func() {
		w.progressSlider.Max = math.Max(total, 1)
		w.progressSlider.Value = math.Min(current, w.progressSlider.Max)
		w.progressSlider.Refresh()
		w.currentTime.SetText(formatTime(current))
		w.endTime.SetText(formatTime(total))
	})
}

// SetVolume updates the volume slider from 0.0-1.0.
func (w *MainWindow) SetVolume(volume float64) {
	fyneapp.Do(func() {
		w.volumeSlider.Value = volume * 100.0
		w.volumeSlider.Refresh()
	})
}

// SetPlaybackRate selects the matching speed option.
func (w *MainWindow) SetPlaybackRate(rate float64) {
	label := domain.FormatRate(rate)
	fyneapp.Do(func() {
		if _, ok := w.speedValues[label]; !ok {
			return
		}
		w.syncing = true
		w.speedSelect.SetSelected(label)
		w.syncing = false
	})
}

// SetPlaylist replaces the playlist entries.
func (w *MainWindow) SetPlaylist(tracks []domain.TrackInfo, current int) {
	fyneapp.Do(func() {
		w.playlist.SetTracks(tracks, current)
	})
}

// SetFavorites refreshes the playlist markers and the favorite button.
func (w *MainWindow) SetFavorites(favorites []string, current domain.CurrentTrack, currentIsFavorite, pulse bool) {
	fyneapp.Do(func() {
		w.playlist.SetFavorites(favorites)
		w.favoriteButton.SetIcon(widgets.FavoriteIcon(currentIsFavorite))
		if current.Selected() {
			w.favoriteButton.Enable()
		} else {
			w.favoriteButton.Disable()
		}
		if pulse {
			w.pulseFavorite()
		}
	})
}

func (w *MainWindow) pulseFavorite() {
	primary := theme.Color(theme.ColorNamePrimary)
	r, g, b, _ := primary.RGBA()
	start := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xa0}
	end := color.NRGBA{R: start.R, G: start.G, B: start.B}
	anim := canvas.NewColorRGBAAnimation(start, end, 400*time.Millisecond, func(c color.Color) {
		w.favoritePulse.FillColor = c
		w.favoritePulse.Refresh()
	})
	anim.Start()
}

// ApplyTheme switches the palette and the background gradient.
func (w *MainWindow) ApplyTheme(t domain.Theme) {
	fyneapp.Do(func() {
		w.theme = t
		w.app.Settings().SetTheme(newPlayerTheme(t))
		top, bottom := backgroundColors(t)
		w.background.StartColor = top
		w.background.EndColor = bottom
		w.background.Refresh()
	})
}

// ShowError displays an error dialog.
func (w *MainWindow) ShowError(title, message string) {
	w.logger.Warn("showing error", slog.String("title", title), slog.String("message", message))
	fyneapp.Do(func() {
		dialog.ShowInformation(title, message, w.window)
	})
}

// CurrentTheme returns the theme last applied.
func (w *MainWindow) CurrentTheme() domain.Theme {
	return w.theme
}

func formatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	return fmt.Sprintf("%.2d:%.2d", int(seconds/60), int(math.Mod(seconds, 60)))
}

var _ ports.UI = (*MainWindow)(nil)
