package service

import (
	"log/slog"
	"slices"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// SpeedToastPrefix starts the confirmation shown after a speed change.
const SpeedToastPrefix = "Playback speed: "

// SpeedService backs the speed selector.
type SpeedService struct {
	logger   *slog.Logger
	playback *PlaybackService
	notifier ports.Notifier
	options  []float64
}

// NewSpeedService creates the service. Empty options fall back to domain.SpeedOptions.
func NewSpeedService(logger *slog.Logger, playback *PlaybackService, notifier ports.Notifier, options []float64) *SpeedService {
	valid := make([]float64, 0, len(options))
	for _, o := range options {
		if domain.ValidPlaybackRate(o) {
			valid = append(valid, o)
		}
	}
	if len(valid) == 0 {
		valid = slices.Clone(domain.SpeedOptions)
	}
	slices.Sort(valid)
	return &SpeedService{
		logger:   logger,
		playback: playback,
		notifier: notifier,
		options:  slices.Compact(valid),
	}
}

// Options returns the selectable rates in ascending order.
func (s *SpeedService) Options() []float64 {
	return slices.Clone(s.options)
}

// Rate returns the current playback rate.
func (s *SpeedService) Rate() float64 {
	return s.playback.PlaybackRate()
}

// SetRate applies rate and confirms it with one toast. Any positive finite
// rate is accepted, not only the listed options.
func (s *SpeedService) SetRate(rate float64) error {
	if err := s.playback.SetPlaybackRate(rate); err != nil {
		s.logger.Warn("failed to set playback rate", slog.Float64("rate", rate), slog.Any("error", err))
		return err
	}
	s.logger.Debug("playback rate changed", slog.Float64("rate", rate))
	s.notifier.ShowToast(SpeedToastPrefix + domain.FormatRate(rate))
	return nil
}
