package fyne

import (
	"image/color"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

// playerTheme pins the default Fyne theme to one variant, so the in-app
// toggle wins over the OS setting.
type playerTheme struct {
	variant fyneapp.ThemeVariant
}

func newPlayerTheme(t domain.Theme) *playerTheme {
	if t == domain.ThemeLight {
		return &playerTheme{variant: theme.VariantLight}
	}
	return &playerTheme{variant: theme.VariantDark}
}

func (t *playerTheme) Color(name fyneapp.ThemeColorName, _ fyneapp.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return color.Transparent
	}
	return theme.DefaultTheme().Color(name, t.variant)
}

func (t *playerTheme) Font(style fyneapp.TextStyle) fyneapp.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *playerTheme) Icon(name fyneapp.ThemeIconName) fyneapp.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *playerTheme) Size(name fyneapp.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

// backgroundColors returns the top and bottom colours of the window gradient.
func backgroundColors(t domain.Theme) (top, bottom color.Color) {
	if t == domain.ThemeLight {
		// gray-100 to gray-300
		return color.NRGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}, color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	}
	// slate-950 to slate-800
	return color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}, color.NRGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}
}

var _ fyneapp.Theme = (*playerTheme)(nil)
