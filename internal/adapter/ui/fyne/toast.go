package fyne

import (
	"image/color"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 3 * time.Second

// Toast is a small message overlay at the bottom of the window.
//
// Thread-safety: ShowToast may be called from any goroutine.
type Toast struct {
	duration time.Duration
	label    *widget.Label
	// Container is placed on top of the window content.
	Container *fyneapp.Container

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewToast creates a hidden toast.
func NewToast(duration time.Duration) *Toast {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	t := &Toast{duration: duration, label: widget.NewLabel("")}
	t.label.Alignment = fyneapp.TextAlignCenter

	bg := canvas.NewRectangle(color.NRGBA{A: 0xc0})
	bg.CornerRadius = 8
	pill := container.NewStack(bg, container.NewPadded(t.label))
	t.Container = container.NewVBox(layout.NewSpacer(), container.NewCenter(pill))
	t.Container.Hide()
	return t
}

// ShowToast shows message, replacing any toast still on screen.
func (t *Toast) ShowToast(message string) {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.duration, func() { t.hide(gen) })
	t.mu.Unlock()

	fyneapp.Do(func() {
		t.label.SetText(message)
		t.Container.Show()
	})
}

func (t *Toast) hide(gen uint64) {
	t.mu.Lock()
	stale := gen != t.gen
	t.mu.Unlock()
	if stale {
		return
	}
	fyneapp.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen == t.gen {
			t.Container.Hide()
		}
	})
}

// Message returns the current text and whether the toast is visible.
func (t *Toast) Message() (string, bool) {
	return t.label.Text, t.Container.Visible()
}

// Stop cancels a pending hide.
func (t *Toast) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

var _ ports.Notifier = (*Toast)(nil)
