package fyne

import (
	"fmt"
	"strings"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/tunedeck/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

// PlaylistView is the playlist panel of the main window: a search box, a
// count and the entries with their favorite markers.
//
// Thread-safety: all methods must run on the UI goroutine.
type PlaylistView struct {
	list        *widget.List
	searchEntry *widget.Entry
	countLabel  *widget.Label
	content     fyneapp.CanvasObject

	data           []domain.TrackInfo // entries shown in the list
	mainCollection []domain.TrackInfo
	currentIndex   int
	favorites      map[string]struct{}

	onPlay func(index int)
}

// NewPlaylistView creates the panel. onPlay receives the playlist index of a
// double-tapped entry.
func NewPlaylistView(onPlay func(index int)) *PlaylistView {
	v := &PlaylistView{
		currentIndex: -1,
		favorites:    make(map[string]struct{}),
		onPlay:       onPlay,
	}

	v.searchEntry = widget.NewEntry()
	v.searchEntry.SetPlaceHolder("Search...")
	v.searchEntry.OnChanged = v.search

	v.countLabel = widget.NewLabel("")
	v.list = widget.NewList(
		func() int { return len(v.data) },
		func() fyneapp.CanvasObject { return widgets.NewPlaylistRow(v.onRowDoubleTapped) },
		v.updateCell,
	)

	v.content = container.NewBorder(
		container.NewBorder(nil, nil, nil, v.countLabel, v.searchEntry),
		nil, nil, nil,
		v.list,
	)
	v.updateCount()
	return v
}

// Content returns the panel for layout.
func (v *PlaylistView) Content() fyneapp.CanvasObject {
	return v.content
}

// SetTracks replaces the entries and the highlighted index.
func (v *PlaylistView) SetTracks(tracks []domain.TrackInfo, current int) {
	v.mainCollection = tracks
	v.currentIndex = current
	v.search(v.searchEntry.Text)
	v.highlight()
}

// SetFavorites refreshes the per-entry markers.
func (v *PlaylistView) SetFavorites(names []string) {
	v.favorites = make(map[string]struct{}, len(names))
	for _, name := range names {
		v.favorites[name] = struct{}{}
	}
	v.list.Refresh()
}

// Len returns the number of visible entries.
func (v *PlaylistView) Len() int {
	return len(v.data)
}

func (v *PlaylistView) updateCell(i widget.ListItemID, obj fyneapp.CanvasObject) {
	row, ok := obj.(*widgets.PlaylistRow)
	if !ok || i < 0 || i >= len(v.data) {
		return
	}
	track := v.data[i]
	_, favorite := v.favorites[track.FileName]
	row.Set(i, track.DisplayName(), favorite)
}

func (v *PlaylistView) onRowDoubleTapped(index int) {
	actual := v.findActualIndex(index)
	if actual >= 0 && v.onPlay != nil {
		v.onPlay(actual)
	}
}

// findActualIndex maps a visible row to its playlist index.
func (v *PlaylistView) findActualIndex(filteredIndex int) int {
	if filteredIndex < 0 || filteredIndex >= len(v.data) {
		return -1
	}
	selected := v.data[filteredIndex]
	for i, track := range v.mainCollection {
		if track.FilePath == selected.FilePath {
			return i
		}
	}
	return -1
}

// findFilteredIndex maps a playlist index to its visible row, -1 when the
// search hides it.
func (v *PlaylistView) findFilteredIndex(mainIndex int) int {
	if mainIndex < 0 || mainIndex >= len(v.mainCollection) {
		return -1
	}
	target := v.mainCollection[mainIndex]
	for i, track := range v.data {
		if track.FilePath == target.FilePath {
			return i
		}
	}
	return -1
}

func (v *PlaylistView) highlight() {
	if row := v.findFilteredIndex(v.currentIndex); row >= 0 {
		v.list.Select(row)
		return
	}
	v.list.UnselectAll()
}

func (v *PlaylistView) search(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		v.data = v.mainCollection
	} else {
		filtered := make([]domain.TrackInfo, 0, len(v.mainCollection))
		for _, track := range v.mainCollection {
			if matchesSearch(track, query) {
				filtered = append(filtered, track)
			}
		}
		v.data = filtered
	}
	v.updateCount()
	v.list.Refresh()
}

func matchesSearch(track domain.TrackInfo, query string) bool {
	for _, field := range []string{track.FileName, track.Title, track.Artist, track.Album} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (v *PlaylistView) updateCount() {
	v.countLabel.SetText(fmt.Sprintf("%d items", len(v.data)))
}
