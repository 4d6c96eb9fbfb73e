package visualizer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 25.0, BarWidth(640, 64, 2.5))
	assert.Equal(t, 0.0, BarWidth(640, 0, 2.5))
}

func TestBarHeightBoundedAndMonotonic(t *testing.T) {
	for _, h := range []int{0, 1, 37, 150, 1080} {
		prev := -1.0
		for v := 0; v <= 255; v++ {
			got := BarHeight(uint8(v), h)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, float64(h))
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
		assert.Equal(t, float64(h), BarHeight(255, h))
		assert.Equal(t, 0.0, BarHeight(0, h))
	}
}

func TestLayoutTopAnchored(t *testing.T) {
	r := NewBarRenderer(DefaultOptions())
	data := make([]uint8, 64)
	data[0] = 255
	data[1] = 51

	bars := r.Layout(640, 100, data)
	require.NotEmpty(t, bars)

	assert.Equal(t, Bar{X: 0, Y: 0, W: 25, H: 100}, bars[0])
	assert.Equal(t, 26.0, bars[1].X)
	assert.InDelta(t, 20.0, bars[1].H, 1e-9)
	assert.Equal(t, 0.0, bars[1].Y)

	// 64 bars of 26 px do not fit in 640 px; the rest is dropped
	assert.Len(t, bars, 25)
}

func TestLayoutBottomAnchored(t *testing.T) {
	opts := DefaultOptions()
	opts.Anchor = AnchorBottom
	r := NewBarRenderer(opts)

	bars := r.Layout(100, 80, []uint8{255, 0, 102})
	require.Len(t, bars, 2)
	assert.Equal(t, 0.0, bars[0].Y)
	assert.Equal(t, 80.0, bars[1].Y)
	assert.Equal(t, 0.0, bars[1].H)
}

func TestDrawGradientAndCorners(t *testing.T) {
	s := NewSurface(40, 60)
	NewBarRenderer(DefaultOptions()).Draw(s, []uint8{255})
	img := s.Image()

	top := img.RGBAAt(20, 1)
	bottom := img.RGBAAt(20, 58)
	require.Equal(t, uint8(255), top.A)
	require.Equal(t, uint8(255), bottom.A)
	assert.Greater(t, top.B, top.R, "top of the bar is indigo")
	assert.Greater(t, bottom.R, bottom.B, "bottom of the bar is pink")

	assert.Less(t, img.RGBAAt(0, 0).A, uint8(255), "corner is rounded")
}

func TestDrawClearsPreviousFrame(t *testing.T) {
	s := NewSurface(40, 60)
	r := NewBarRenderer(DefaultOptions())

	r.Draw(s, []uint8{255})
	require.NotZero(t, s.Image().RGBAAt(20, 30).A)

	r.Draw(s, []uint8{0})
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(20, 30))
}

func TestDrawSurvivesResize(t *testing.T) {
	s := NewSurface(40, 60)
	r := NewBarRenderer(DefaultOptions())
	r.Draw(s, []uint8{255})

	s.Resize(80, 20)
	s.Resize(40, 60)
	assert.NotPanics(t, func() { r.Draw(s, []uint8{255}) })
	assert.NotZero(t, s.Image().RGBAAt(20, 30).A)

	s.Resize(0, 0)
	assert.NotPanics(t, func() { r.Draw(s, []uint8{255}) })
}

func TestSurfaceResize(t *testing.T) {
	s := NewSurface(10, 10)
	s.Image().Pix[0] = 200

	assert.False(t, s.Resize(10, 10))
	assert.Equal(t, uint8(200), s.Image().Pix[0])

	assert.True(t, s.Resize(20, 5))
	assert.Equal(t, 20, s.Width())
	assert.Equal(t, 5, s.Height())
	assert.Equal(t, uint8(0), s.Image().Pix[0])

	s.Resize(-3, -3)
	assert.Equal(t, 0, s.Width())
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#6366f1")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}, c)

	c, err = ParseHexColor("f0a")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x00, B: 0xaa, A: 0xff}, c)

	c, err = ParseHexColor("#00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}
