package visualizer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/tejashwikalptaru/tunedeck/internal/analysis"
)

// Anchor selects the edge bars grow from.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// ColorStop is one stop of the vertical bar gradient.
type ColorStop struct {
	Offset float64 // 0 at the top of the surface, 1 at the bottom
	Color  color.NRGBA
}

// Options describe the spectrum drawing.
type Options struct {
	FFTSize      int
	Analysis     analysis.Options
	BarScale     float64 // bar width = surface width / bins * BarScale
	BarSpacing   float64
	CornerRadius float64
	Stops        []ColorStop
	Anchor       Anchor
}

// DefaultStops is the indigo, violet, pink gradient.
func DefaultStops() []ColorStop {
	return []ColorStop{
		{Offset: 0, Color: color.NRGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}},
		{Offset: 0.5, Color: color.NRGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}},
		{Offset: 1, Color: color.NRGBA{R: 0xec, G: 0x48, B: 0x99, A: 0xff}},
	}
}

// DefaultOptions returns 64 bins, 2.5x bars spaced by one pixel, radius 3,
// anchored at the top.
func DefaultOptions() Options {
	return Options{
		FFTSize:      analysis.DefaultFFTSize,
		BarScale:     2.5,
		BarSpacing:   1,
		CornerRadius: 3,
		Stops:        DefaultStops(),
		Anchor:       AnchorTop,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.FFTSize == 0 {
		o.FFTSize = def.FFTSize
	}
	if o.BarScale <= 0 {
		o.BarScale = def.BarScale
	}
	if o.BarSpacing < 0 {
		o.BarSpacing = 0
	}
	if o.CornerRadius < 0 {
		o.CornerRadius = 0
	}
	if len(o.Stops) < 2 {
		o.Stops = def.Stops
	}
	if o.Anchor != AnchorBottom {
		o.Anchor = AnchorTop
	}
	return o
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
