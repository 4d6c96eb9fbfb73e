package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tejashwikalptaru/tunedeck/res"
)

// PlaylistRow is one playlist entry: a favorite marker and the title.
// Double-tapping the row plays it.
type PlaylistRow struct {
	widget.BaseWidget

	icon  *widget.Icon
	label *widget.Label

	index        int
	favorite     bool
	doubleTapped func(index int)
}

// NewPlaylistRow creates a row that calls doubleTapped with its index.
func NewPlaylistRow(doubleTapped func(index int)) *PlaylistRow {
	r := &PlaylistRow{
		icon:         widget.NewIcon(theme.NewThemedResource(res.ResourceHeartOutlineSvg)),
		label:        widget.NewLabel(""),
		doubleTapped: doubleTapped,
	}
	r.label.Truncation = fyne.TextTruncateEllipsis
	r.ExtendBaseWidget(r)
	return r
}

// Set updates the row contents.
func (r *PlaylistRow) Set(index int, text string, favorite bool) {
	r.index = index
	r.label.SetText(text)
	if r.favorite != favorite || r.icon.Resource == nil {
		r.favorite = favorite
		r.icon.SetResource(FavoriteIcon(favorite))
	}
}

// Text returns the displayed title.
func (r *PlaylistRow) Text() string {
	return r.label.Text
}

// Favorite reports whether the row shows the filled marker.
func (r *PlaylistRow) Favorite() bool {
	return r.favorite
}

// DoubleTapped implements fyne.DoubleTappable.
func (r *PlaylistRow) DoubleTapped(*fyne.PointEvent) {
	if r.doubleTapped != nil {
		r.doubleTapped(r.index)
	}
}

// CreateRenderer implements fyne.Widget.
func (r *PlaylistRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, r.icon, nil, r.label))
}

// FavoriteIcon returns the filled heart for favorites and the outline otherwise.
func FavoriteIcon(favorite bool) fyne.Resource {
	if favorite {
		return theme.NewPrimaryThemedResource(res.ResourceHeartFilledSvg)
	}
	return theme.NewThemedResource(res.ResourceHeartOutlineSvg)
}

var _ fyne.DoubleTappable = (*PlaylistRow)(nil)
