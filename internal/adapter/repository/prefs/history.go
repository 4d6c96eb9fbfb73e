package prefs

import (
	"encoding/json"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

const (
	keyQueue        = "history.queue"
	keyCurrentIndex = "history.current_index"
)

// storedTrack is the persisted shape of a playlist entry.
type storedTrack struct {
	Path   string `json:"path"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}

// HistoryRepository implements ports.HistoryRepository.
//
// Fyne stores preferences in the OS-specific app data directory, so the
// playlist survives restarts.
type HistoryRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewHistoryRepository creates a history repository over prefs.
func NewHistoryRepository(prefs fyne.Preferences) *HistoryRepository {
	return &HistoryRepository{prefs: prefs}
}

// SaveQueue persists the playlist entries.
func (r *HistoryRepository) SaveQueue(tracks []domain.TrackInfo) error {
	stored := make([]storedTrack, len(tracks))
	for i, t := range tracks {
		stored[i] = storedTrack{Path: t.FilePath, Title: t.Title, Artist: t.Artist, Album: t.Album}
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return domain.NewRepositoryError("save", "history", "failed to marshal playlist", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.SetString(keyQueue, string(data))
	return nil
}

// LoadQueue returns the saved entries.
func (r *HistoryRepository) LoadQueue() ([]domain.TrackInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.prefs.String(keyQueue)
	if data == "" {
		return []domain.TrackInfo{}, nil
	}

	var stored []storedTrack
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, domain.NewRepositoryError("load", "history", "failed to unmarshal playlist", err)
	}

	tracks := make([]domain.TrackInfo, 0, len(stored))
	for _, s := range stored {
		if s.Path == "" {
			continue
		}
		t := domain.NewTrackInfo(s.Path)
		if s.Title != "" {
			t.Title = s.Title
		}
		t.Artist = s.Artist
		t.Album = s.Album
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// SaveCurrentIndex persists the selected index.
func (r *HistoryRepository) SaveCurrentIndex(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// fyne returns 0 for a missing int, so the index is stored shifted by one
	r.prefs.SetInt(keyCurrentIndex, index+1)
	return nil
}

// LoadCurrentIndex returns the saved index, -1 when unset.
func (r *HistoryRepository) LoadCurrentIndex() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.prefs.Int(keyCurrentIndex) - 1, nil
}

// Clear removes the saved playlist.
func (r *HistoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.RemoveValue(keyQueue)
	r.prefs.RemoveValue(keyCurrentIndex)
	return nil
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)
