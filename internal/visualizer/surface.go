package visualizer

import "image"

// Surface is the pixel buffer the loop draws into. Its size follows the
// container's rendered size; resizing drops the previous content.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates an empty surface.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Resize reallocates the buffer when the size changed and reports whether it did.
func (s *Surface) Resize(width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	if s.img != nil && s.Width() == width && s.Height() == height {
		return false
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return true
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Width returns the width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }
