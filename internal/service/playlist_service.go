package service

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// PlaylistService owns the track list and the current selection.
//
// It publishes TrackAddedEvent for every new entry and TrackSelectedEvent
// whenever the current entry changes; favorites and the playlist view
// observe those instead of hooking into insertion.
type PlaylistService struct {
	logger   *slog.Logger
	playback *PlaybackService
	history  ports.HistoryRepository
	bus      ports.EventBus

	mu           sync.RWMutex
	queue        []domain.TrackInfo
	currentIndex int

	autoNextSub domain.SubscriptionID
}

// NewPlaylistService creates a playlist service bound to playback.
func NewPlaylistService(
	logger *slog.Logger,
	playback *PlaybackService,
	history ports.HistoryRepository,
	bus ports.EventBus,
) *PlaylistService {
	s := &PlaylistService{
		logger:       logger,
		playback:     playback,
		history:      history,
		bus:          bus,
		currentIndex: -1,
	}
	s.autoNextSub = bus.Subscribe(domain.EventAutoNext, s.handleAutoNext)
	return s
}

// AddTrack appends a track. Adding a path that is already listed returns
// ErrDuplicateTrack.
func (s *PlaylistService) AddTrack(track domain.TrackInfo, playImmediately bool) error {
	s.mu.Lock()
	if s.indexOfLocked(track.FilePath) >= 0 {
		s.mu.Unlock()
		return domain.ErrDuplicateTrack
	}
	s.queue = append(s.queue, track)
	index := len(s.queue) - 1
	snapshot, current := s.snapshotLocked()
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackAddedEvent(track, index))
	s.bus.Publish(domain.NewPlaylistUpdatedEvent(snapshot, current))

	if playImmediately {
		return s.PlayTrackAt(index)
	}
	return nil
}

// AddTracks appends every track whose path is not listed yet and returns how
// many were added.
func (s *PlaylistService) AddTracks(tracks []domain.TrackInfo, playFirst bool) (int, error) {
	s.mu.Lock()
	start := len(s.queue)
	for _, track := range tracks {
		if s.indexOfLocked(track.FilePath) >= 0 {
			continue
		}
		s.queue = append(s.queue, track)
	}
	added := slices.Clone(s.queue[start:])
	snapshot, current := s.snapshotLocked()
	s.mu.Unlock()

	if len(added) == 0 {
		return 0, nil
	}
	for i, track := range added {
		s.bus.Publish(domain.NewTrackAddedEvent(track, start+i))
	}
	s.bus.Publish(domain.NewPlaylistUpdatedEvent(snapshot, current))

	if playFirst {
		return len(added), s.PlayTrackAt(start)
	}
	return len(added), nil
}

// PlayTrackAt selects the entry at index and plays it.
func (s *PlaylistService) PlayTrackAt(index int) error {
	track, err := s.selectIndex(index)
	if err != nil {
		return err
	}
	if err := s.playback.LoadTrack(track); err != nil {
		return err
	}
	return s.playback.Play()
}

// Next plays the entry after the current one.
func (s *PlaylistService) Next() error {
	s.mu.RLock()
	n, current := len(s.queue), s.currentIndex
	s.mu.RUnlock()

	if n == 0 {
		return domain.ErrPlaylistEmpty
	}
	if current >= n-1 {
		return domain.ErrEndOfPlaylist
	}
	return s.PlayTrackAt(current + 1)
}

// Previous plays the entry before the current one.
func (s *PlaylistService) Previous() error {
	s.mu.RLock()
	n, current := len(s.queue), s.currentIndex
	s.mu.RUnlock()

	if n == 0 {
		return domain.ErrPlaylistEmpty
	}
	if current <= 0 {
		return domain.ErrStartOfPlaylist
	}
	return s.PlayTrackAt(current - 1)
}

// CurrentTrack returns the selected entry, or domain.NoTrack.
func (s *PlaylistService) CurrentTrack() domain.CurrentTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentIndex < 0 || s.currentIndex >= len(s.queue) {
		return domain.NoTrack
	}
	return domain.CurrentTrack{Index: s.currentIndex, FileName: s.queue[s.currentIndex].FileName}
}

// Tracks returns a copy of the playlist.
func (s *PlaylistService) Tracks() []domain.TrackInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.queue)
}

// Len returns the number of entries.
func (s *PlaylistService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue)
}

// Clear stops playback and empties the playlist.
func (s *PlaylistService) Clear() error {
	if err := s.playback.Stop(); err != nil {
		s.logger.Warn("failed to stop playback while clearing", slog.Any("error", err))
	}

	s.mu.Lock()
	s.queue = nil
	s.currentIndex = -1
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaylistUpdatedEvent(nil, -1))
	s.bus.Publish(domain.NewTrackSelectedEvent(domain.TrackInfo{}, -1))
	return nil
}

// SaveQueue writes the playlist and selection to the history repository.
func (s *PlaylistService) SaveQueue() error {
	s.mu.RLock()
	queue, index := slices.Clone(s.queue), s.currentIndex
	s.mu.RUnlock()

	if err := s.history.SaveQueue(queue); err != nil {
		return err
	}
	return s.history.SaveCurrentIndex(index)
}

// LoadQueue restores the playlist saved by SaveQueue without starting playback.
func (s *PlaylistService) LoadQueue() error {
	queue, err := s.history.LoadQueue()
	if err != nil {
		return err
	}
	index, err := s.history.LoadCurrentIndex()
	if err != nil || index >= len(queue) {
		index = -1
	}

	s.mu.Lock()
	s.queue = queue
	s.currentIndex = index
	snapshot, current := s.snapshotLocked()
	s.mu.Unlock()

	for i, track := range snapshot {
		s.bus.Publish(domain.NewTrackAddedEvent(track, i))
	}
	s.bus.Publish(domain.NewPlaylistUpdatedEvent(snapshot, current))
	if current >= 0 {
		s.bus.Publish(domain.NewTrackSelectedEvent(snapshot[current], current))
	}
	return nil
}

// Shutdown unsubscribes and persists the playlist.
func (s *PlaylistService) Shutdown() error {
	s.bus.Unsubscribe(s.autoNextSub)
	return s.SaveQueue()
}

func (s *PlaylistService) selectIndex(index int) (domain.TrackInfo, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.queue) {
		s.mu.Unlock()
		return domain.TrackInfo{}, domain.ErrInvalidIndex
	}
	s.currentIndex = index
	track := s.queue[index]
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackSelectedEvent(track, index))
	return track, nil
}

// handleAutoNext moves on after a natural end. The last entry stays selected.
func (s *PlaylistService) handleAutoNext(event domain.Event) {
	e, ok := event.(domain.AutoNextEvent)
	if !ok {
		return
	}

	s.mu.RLock()
	current := s.currentIndex
	last := current >= len(s.queue)-1
	stale := current < 0 || s.queue[current].FilePath != e.Track.FilePath
	s.mu.RUnlock()

	if stale || last {
		return
	}
	if err := s.PlayTrackAt(current + 1); err != nil {
		s.logger.Warn("auto next failed", slog.Int("index", current+1), slog.Any("error", err))
	}
}

func (s *PlaylistService) indexOfLocked(path string) int {
	return slices.IndexFunc(s.queue, func(t domain.TrackInfo) bool { return t.FilePath == path })
}

func (s *PlaylistService) snapshotLocked() ([]domain.TrackInfo, int) {
	return slices.Clone(s.queue), s.currentIndex
}
