package visualizer

import (
	"image"

	"github.com/srwiley/rasterx"
)

// Bar is one rectangle of the spectrum, in surface pixels.
type Bar struct {
	X, Y, W, H float64
}

// BarWidth returns surface width / bins * scale.
func BarWidth(width, bins int, scale float64) float64 {
	if bins <= 0 {
		return 0
	}
	return float64(width) / float64(bins) * scale
}

// BarHeight maps a byte magnitude linearly onto [0, height].
func BarHeight(value uint8, height int) float64 {
	return float64(value) / 255 * float64(height)
}

// BarRenderer draws rounded gradient bars with rasterx.
type BarRenderer struct {
	opts    Options
	target  *image.RGBA
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
}

// NewBarRenderer creates a renderer for the given options.
func NewBarRenderer(opts Options) *BarRenderer {
	return &BarRenderer{opts: opts.normalized()}
}

// SetAnchor changes the edge bars grow from.
func (r *BarRenderer) SetAnchor(a Anchor) {
	r.opts.Anchor = a
}

// Anchor returns the edge bars grow from.
func (r *BarRenderer) Anchor() Anchor {
	return r.opts.Anchor
}

// Layout returns the bars for data on a width x height surface. Bars are laid
// out left to right in bin order without fitting them to the width; bars
// that start past the right edge are dropped.
func (r *BarRenderer) Layout(width, height int, data []uint8) []Bar {
	bw := BarWidth(width, len(data), r.opts.BarScale)
	bars := make([]Bar, 0, len(data))
	x := 0.0
	for _, v := range data {
		if x >= float64(width) {
			break
		}
		bh := BarHeight(v, height)
		y := 0.0
		if r.opts.Anchor == AnchorBottom {
			y = float64(height) - bh
		}
		bars = append(bars, Bar{X: x, Y: y, W: bw, H: bh})
		x += bw + r.opts.BarSpacing
	}
	return bars
}

// gradient spans the full surface height, so it is rebuilt whenever the
// height changes; it is cheap enough to rebuild every frame.
func (r *BarRenderer) gradient(height int) *rasterx.Gradient {
	g := &rasterx.Gradient{
		Points: [5]float64{0, 0, 0, float64(height)},
		Matrix: rasterx.Identity,
		Spread: rasterx.PadSpread,
		Units:  rasterx.UserSpaceOnUse,
	}
	g.Bounds.W = 1
	g.Bounds.H = float64(max(height, 1))
	for _, s := range r.opts.Stops {
		g.Stops = append(g.Stops, rasterx.GradStop{StopColor: s.Color, Offset: s.Offset, Opacity: 1})
	}
	return g
}

// Draw clears the surface and paints the spectrum for data.
func (r *BarRenderer) Draw(s *Surface, data []uint8) {
	s.Clear()
	w, h := s.Width(), s.Height()
	if w == 0 || h == 0 || len(data) == 0 {
		return
	}
	if img := s.Image(); r.target != img {
		r.scanner = rasterx.NewScannerGV(w, h, img, img.Bounds())
		r.filler = rasterx.NewFiller(w, h, r.scanner)
		r.target = img
	}

	r.filler.Clear()
	r.filler.SetColor(r.gradient(h).GetColorFunction(1))
	radius := r.opts.CornerRadius
	drawn := 0
	for _, b := range r.Layout(w, h, data) {
		if b.H <= 0 {
			continue
		}
		rasterx.AddRoundRect(b.X, b.Y, b.X+b.W, b.Y+b.H, radius, radius, 0, rasterx.RoundGap, r.filler)
		drawn++
	}
	if drawn > 0 {
		r.filler.Draw()
	}
}
