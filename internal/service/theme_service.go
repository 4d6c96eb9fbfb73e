package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// ThemeService holds the light/dark preference.
type ThemeService struct {
	logger *slog.Logger
	repo   ports.ThemeRepository
	bus    ports.EventBus

	mu      sync.RWMutex
	current domain.Theme
}

// NewThemeService reads the stored theme, defaulting to dark.
func NewThemeService(logger *slog.Logger, repo ports.ThemeRepository, bus ports.EventBus) *ThemeService {
	theme, err := repo.LoadTheme()
	if err != nil {
		logger.Warn("failed to load theme", slog.Any("error", err))
		theme = domain.DefaultTheme
	}
	return &ThemeService{
		logger:  logger,
		repo:    repo,
		bus:     bus,
		current: domain.ParseTheme(string(theme)),
	}
}

// Current returns the active theme.
func (s *ThemeService) Current() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Toggle switches between light and dark and returns the new theme.
func (s *ThemeService) Toggle() (domain.Theme, error) {
	next := s.Current().Toggle()
	if err := s.Apply(next); err != nil {
		return s.Current(), err
	}
	return next, nil
}

// Apply persists theme and announces it.
func (s *ThemeService) Apply(theme domain.Theme) error {
	if err := s.repo.SaveTheme(theme); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = theme
	s.mu.Unlock()

	s.logger.Debug("theme applied", slog.String("theme", string(theme)))
	s.bus.Publish(domain.NewThemeChangedEvent(theme))
	return nil
}
