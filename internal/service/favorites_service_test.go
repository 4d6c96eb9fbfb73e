package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
)

type mockFavoritesRepository struct {
	mu        sync.Mutex
	stored    []string
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockFavoritesRepository) LoadFavorites() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]string(nil), m.stored...), nil
}

func (m *mockFavoritesRepository) SaveFavorites(names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = append([]string(nil), names...)
	return nil
}

func newTestFavoritesService(repo *mockFavoritesRepository) (*FavoritesService, *eventbus.SyncEventBus) {
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	return NewFavoritesService(logger.NewTestLogger(), repo, bus), bus
}

func selectTrack(bus *eventbus.SyncEventBus, path string, index int) {
	bus.Publish(domain.NewTrackSelectedEvent(domain.NewTrackInfo(path), index))
}

func TestFavoritesService_LoadsStored(t *testing.T) {
	s, _ := newTestFavoritesService(&mockFavoritesRepository{stored: []string{"a.mp3", "b.mp3"}})

	assert.Equal(t, []string{"a.mp3", "b.mp3"}, s.Favorites())
	assert.True(t, s.IsFavorite("a.mp3"))
	assert.False(t, s.IsFavorite("c.mp3"))
}

func TestFavoritesService_LoadFailureIsEmpty(t *testing.T) {
	s, _ := newTestFavoritesService(&mockFavoritesRepository{loadErr: errors.New("corrupt")})
	assert.Empty(t, s.Favorites())
}

func TestFavoritesService_ToggleNeedsSelection(t *testing.T) {
	repo := &mockFavoritesRepository{}
	s, _ := newTestFavoritesService(repo)

	assert.False(t, s.CanToggle())
	_, err := s.Toggle()
	assert.ErrorIs(t, err, domain.ErrNoTrackSelected)
	assert.Zero(t, repo.saveCalls)
}

func TestFavoritesService_ToggleTwiceRestores(t *testing.T) {
	repo := &mockFavoritesRepository{stored: []string{"x.mp3"}}
	s, bus := newTestFavoritesService(repo)
	selectTrack(bus, "/music/song.mp3", 0)
	require.True(t, s.CanToggle())

	before := s.Favorites()

	added, err := s.Toggle()
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"x.mp3", "song.mp3"}, repo.stored)

	added, err = s.Toggle()
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, before, s.Favorites())
	assert.Equal(t, before, repo.stored)
}

func TestFavoritesService_PublishesChanges(t *testing.T) {
	s, bus := newTestFavoritesService(&mockFavoritesRepository{})

	var events []domain.FavoritesChangedEvent
	bus.Subscribe(domain.EventFavoritesChanged, func(e domain.Event) {
		events = append(events, e.(domain.FavoritesChangedEvent))
	})

	selectTrack(bus, "/music/song.mp3", 2)
	require.Len(t, events, 1)
	assert.Equal(t, domain.CurrentTrack{Index: 2, FileName: "song.mp3"}, events[0].Current)
	assert.False(t, events[0].CurrentIsFavorite)

	_, err := s.Toggle()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[1].Added)
	assert.True(t, events[1].CurrentIsFavorite)
	assert.Equal(t, []string{"song.mp3"}, events[1].Favorites)

	bus.Publish(domain.NewTrackAddedEvent(domain.NewTrackInfo("/music/new.mp3"), 3))
	require.Len(t, events, 3)
	assert.False(t, events[2].Added)
}

func TestFavoritesService_SaveFailureKeepsSet(t *testing.T) {
	repo := &mockFavoritesRepository{saveErr: errors.New("disk full")}
	s, bus := newTestFavoritesService(repo)
	selectTrack(bus, "/music/song.mp3", 0)

	_, err := s.Toggle()
	require.Error(t, err)
	assert.Empty(t, s.Favorites())
}

func TestFavoritesService_DeselectDisablesToggle(t *testing.T) {
	s, bus := newTestFavoritesService(&mockFavoritesRepository{})
	selectTrack(bus, "/music/song.mp3", 0)
	require.True(t, s.CanToggle())

	bus.Publish(domain.NewTrackSelectedEvent(domain.TrackInfo{}, -1))
	assert.False(t, s.CanToggle())

	s.Shutdown()
	selectTrack(bus, "/music/song.mp3", 0)
	assert.False(t, s.CanToggle())
}
