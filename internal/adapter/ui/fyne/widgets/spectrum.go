// Package widgets provides the custom Fyne widgets used by the TuneDeck window.
package widgets

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Spectrum shows the visualizer surface. It reports its pixel size to the
// loop and receives every drawn frame.
type Spectrum struct {
	widget.BaseWidget

	raster *canvas.Raster

	mu             sync.Mutex
	img            *image.RGBA
	onResize       func()
	onSecondaryTap func(*fyne.PointEvent)
}

var empty = image.NewRGBA(image.Rect(0, 0, 1, 1))

// NewSpectrum creates an empty spectrum.
func NewSpectrum() *Spectrum {
	s := &Spectrum{}
	s.raster = canvas.NewRaster(s.generate)
	s.raster.ScaleMode = canvas.ImageScalePixels
	s.ExtendBaseWidget(s)
	return s
}

// SetOnResize registers fn to run after every resize.
func (s *Spectrum) SetOnResize(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = fn
}

// SetOnSecondaryTap registers the right-click handler.
func (s *Spectrum) SetOnSecondaryTap(fn func(*fyne.PointEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSecondaryTap = fn
}

// PixelSize returns the widget size in device pixels.
func (s *Spectrum) PixelSize() (int, int) {
	size := s.Size()
	scale := float32(1)
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(s); c != nil {
			scale = c.Scale()
		}
	}
	return int(size.Width * scale), int(size.Height * scale)
}

// Present shows img. The loop keeps drawing into the same image, so only
// the pointer is kept.
func (s *Spectrum) Present(img *image.RGBA) {
	s.mu.Lock()
	s.img = img
	s.mu.Unlock()
	s.raster.Refresh()
}

// Frame returns the last presented image.
func (s *Spectrum) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Resize resizes the widget and then notifies the resize handler.
func (s *Spectrum) Resize(size fyne.Size) {
	s.BaseWidget.Resize(size)

	s.mu.Lock()
	fn := s.onResize
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// TappedSecondary implements fyne.SecondaryTappable.
func (s *Spectrum) TappedSecondary(pe *fyne.PointEvent) {
	s.mu.Lock()
	fn := s.onSecondaryTap
	s.mu.Unlock()
	if fn != nil {
		fn(pe)
	}
}

// CreateRenderer implements fyne.Widget.
func (s *Spectrum) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

func (s *Spectrum) generate(w, h int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil || s.img.Rect.Empty() {
		return empty
	}
	return s.img
}

var _ fyne.SecondaryTappable = (*Spectrum)(nil)
