package service

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// FavoritesService keeps the set of favorite file names.
type FavoritesService struct {
	logger *slog.Logger
	repo   ports.FavoritesRepository
	bus    ports.EventBus

	mu        sync.RWMutex
	favorites []string
	current   domain.CurrentTrack

	subs []domain.SubscriptionID
}

// NewFavoritesService loads the stored favorites and starts following the
// playlist. A failed load starts from an empty set.
func NewFavoritesService(logger *slog.Logger, repo ports.FavoritesRepository, bus ports.EventBus) *FavoritesService {
	favorites, err := repo.LoadFavorites()
	if err != nil {
		logger.Warn("failed to load favorites, starting empty", slog.Any("error", err))
		favorites = nil
	}

	s := &FavoritesService{
		logger:    logger,
		repo:      repo,
		bus:       bus,
		favorites: favorites,
		current:   domain.NoTrack,
	}
	s.subs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventTrackSelected, s.onTrackSelected),
		bus.Subscribe(domain.EventTrackAdded, s.onTrackAdded),
	}
	return s
}

// Favorites returns the favorite names in the order they were added.
func (s *FavoritesService) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// IsFavorite reports whether name is a favorite.
func (s *FavoritesService) IsFavorite(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.favorites, name)
}

// CanToggle reports whether a track is selected.
func (s *FavoritesService) CanToggle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Selected()
}

// Current returns the track Toggle would act on.
func (s *FavoritesService) Current() domain.CurrentTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Toggle adds the current track to the favorites, or removes it when it is
// already there, and persists the result. It reports whether the track was added.
func (s *FavoritesService) Toggle() (bool, error) {
	s.mu.Lock()
	if !s.current.Selected() {
		s.mu.Unlock()
		return false, domain.ErrNoTrackSelected
	}

	name := s.current.FileName
	next := slices.Clone(s.favorites)
	added := false
	if i := slices.Index(next, name); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, name)
		added = true
	}

	if err := s.repo.SaveFavorites(next); err != nil {
		s.mu.Unlock()
		return false, domain.NewServiceError("FavoritesService", "Toggle", "failed to save favorites", err)
	}
	s.favorites = next
	event := s.changedLocked(added)
	s.mu.Unlock()

	s.logger.Debug("favorite toggled", slog.String("name", name), slog.Bool("added", added))
	s.bus.Publish(event)
	return added, nil
}

// Shutdown stops following the playlist.
func (s *FavoritesService) Shutdown() {
	for _, id := range s.subs {
		s.bus.Unsubscribe(id)
	}
	s.subs = nil
}

func (s *FavoritesService) onTrackSelected(event domain.Event) {
	e, ok := event.(domain.TrackSelectedEvent)
	if !ok {
		return
	}
	s.mu.Lock()
	s.current = e.Current
	if !s.current.Selected() {
		s.current = domain.NoTrack
	}
	changed := s.changedLocked(false)
	s.mu.Unlock()

	s.bus.Publish(changed)
}

// onTrackAdded republishes the set so the new entry gets its icon.
func (s *FavoritesService) onTrackAdded(event domain.Event) {
	if _, ok := event.(domain.TrackAddedEvent); !ok {
		return
	}
	s.mu.RLock()
	changed := s.changedLocked(false)
	s.mu.RUnlock()

	s.bus.Publish(changed)
}

func (s *FavoritesService) changedLocked(added bool) domain.FavoritesChangedEvent {
	isFavorite := s.current.Selected() && slices.Contains(s.favorites, s.current.FileName)
	return domain.NewFavoritesChangedEvent(slices.Clone(s.favorites), s.current, isFavorite, added)
}
