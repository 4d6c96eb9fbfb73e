package widgets

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrum_PixelSizeFollowsResize(t *testing.T) {
	test.NewTempApp(t)
	s := NewSpectrum()
	w := test.NewWindow(s)
	defer w.Close()

	resized := 0
	s.SetOnResize(func() { resized++ })
	s.Resize(fyne.NewSize(120, 40))

	width, height := s.PixelSize()
	assert.Equal(t, 120, width)
	assert.Equal(t, 40, height)
	assert.Equal(t, 1, resized)
}

func TestSpectrum_PresentKeepsLastFrame(t *testing.T) {
	test.NewTempApp(t)
	s := NewSpectrum()
	assert.Nil(t, s.Frame())

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	s.Present(img)
	assert.Same(t, img, s.Frame())
	assert.Same(t, img, s.generate(4, 2))
}

func TestSpectrum_EmptyFrameBeforeFirstPresent(t *testing.T) {
	test.NewTempApp(t)
	s := NewSpectrum()

	out := s.generate(10, 10)
	require.NotNil(t, out)
	assert.Equal(t, 1, out.Bounds().Dx())
}

func TestSpectrum_SecondaryTap(t *testing.T) {
	test.NewTempApp(t)
	s := NewSpectrum()

	var got *fyne.PointEvent
	s.SetOnSecondaryTap(func(pe *fyne.PointEvent) { got = pe })
	test.TapSecondary(s)

	assert.NotNil(t, got)
}

func TestPlaylistRow_DoubleTapReportsIndex(t *testing.T) {
	test.NewTempApp(t)
	played := -1
	row := NewPlaylistRow(func(index int) { played = index })
	row.Set(3, "Artist - Song", false)

	test.DoubleTap(row)

	assert.Equal(t, 3, played)
	assert.Equal(t, "Artist - Song", row.Text())
}

func TestPlaylistRow_FavoriteMarker(t *testing.T) {
	test.NewTempApp(t)
	row := NewPlaylistRow(nil)

	row.Set(0, "song", true)
	assert.True(t, row.Favorite())
	assert.Equal(t, FavoriteIcon(true).Name(), row.icon.Resource.Name())

	row.Set(0, "song", false)
	assert.False(t, row.Favorite())
	assert.Equal(t, FavoriteIcon(false).Name(), row.icon.Resource.Name())

	test.DoubleTap(row)
}
