package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
)

type mockThemeRepository struct {
	theme domain.Theme
	saved int
}

func (m *mockThemeRepository) LoadTheme() (domain.Theme, error) {
	if m.theme == "" {
		return domain.DefaultTheme, nil
	}
	return m.theme, nil
}

func (m *mockThemeRepository) SaveTheme(theme domain.Theme) error {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return domain.NewValidationError("theme", theme, "must be light or dark", nil)
	}
	m.theme = theme
	m.saved++
	return nil
}

func TestThemeService_DefaultsToDark(t *testing.T) {
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	s := NewThemeService(logger.NewTestLogger(), &mockThemeRepository{}, bus)
	assert.Equal(t, domain.ThemeDark, s.Current())
}

func TestThemeService_StoredLight(t *testing.T) {
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	s := NewThemeService(logger.NewTestLogger(), &mockThemeRepository{theme: domain.ThemeLight}, bus)
	assert.Equal(t, domain.ThemeLight, s.Current())
}

func TestThemeService_TogglePersistsAndPublishes(t *testing.T) {
	repo := &mockThemeRepository{}
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	s := NewThemeService(logger.NewTestLogger(), repo, bus)

	var got []domain.Theme
	bus.Subscribe(domain.EventThemeChanged, func(e domain.Event) {
		got = append(got, e.(domain.ThemeChangedEvent).Theme)
	})

	next, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, next)
	assert.Equal(t, domain.ThemeLight, repo.theme)

	next, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, next)
	assert.Equal(t, []domain.Theme{domain.ThemeLight, domain.ThemeDark}, got)
	assert.Equal(t, 2, repo.saved)
}

func TestThemeService_ApplyRejectsUnknown(t *testing.T) {
	repo := &mockThemeRepository{}
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	s := NewThemeService(logger.NewTestLogger(), repo, bus)

	err := s.Apply(domain.Theme("sepia"))
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, domain.ThemeDark, s.Current())
}
