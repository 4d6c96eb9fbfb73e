package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// supportedExts are the containers the audio engine can decode.
var supportedExts = []string{".mp3", ".wav", ".flac", ".ogg"}

// LibraryService finds audio files and reads their tags.
type LibraryService struct {
	logger   *slog.Logger
	metadata ports.MetadataReader
	bus      ports.EventBus

	mu       sync.Mutex
	scanning bool
	cancel   context.CancelFunc
}

// NewLibraryService creates a library service. A nil metadata reader falls
// back to file names only.
func NewLibraryService(logger *slog.Logger, metadata ports.MetadataReader, bus ports.EventBus) *LibraryService {
	return &LibraryService{
		logger:   logger,
		metadata: metadata,
		bus:      bus,
	}
}

// IsFormatSupported reports whether the file extension can be played.
func (s *LibraryService) IsFormatSupported(filePath string) bool {
	return slices.Contains(supportedExts, strings.ToLower(filepath.Ext(filePath)))
}

// SupportedFormats returns the playable extensions.
func (s *LibraryService) SupportedFormats() []string {
	return slices.Clone(supportedExts)
}

// ExtractMetadata builds the TrackInfo for one file. Unreadable tags are not
// an error: the track keeps its file-name title.
func (s *LibraryService) ExtractMetadata(filePath string) (domain.TrackInfo, error) {
	if !s.IsFormatSupported(filePath) {
		return domain.TrackInfo{}, domain.ErrUnsupportedFormat
	}
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.TrackInfo{}, domain.ErrFileNotFound
		}
		return domain.TrackInfo{}, err
	}

	if s.metadata != nil {
		track, err := s.metadata.ReadMetadata(filePath)
		if err == nil && track != nil {
			return *track, nil
		}
		s.logger.Debug("no readable tags", slog.String("file_path", filePath), slog.Any("error", err))
	}
	return domain.NewTrackInfo(filePath), nil
}

// ScanFiles reads metadata for the given files, skipping unsupported ones.
func (s *LibraryService) ScanFiles(filePaths []string) []domain.TrackInfo {
	tracks := make([]domain.TrackInfo, 0, len(filePaths))
	for _, path := range filePaths {
		track, err := s.ExtractMetadata(path)
		if err != nil {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// ScanFolder walks folderPath recursively and returns the playable tracks in
// lexical order. Only one scan runs at a time; ctx or CancelScan stops it
// with ErrScanCancelled and the tracks found so far.
func (s *LibraryService) ScanFolder(ctx context.Context, folderPath string) ([]domain.TrackInfo, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return nil, domain.NewServiceError("LibraryService", "ScanFolder", "scan already in progress", nil)
	}
	ctx, cancel := context.WithCancel(ctx)
	s.scanning = true
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.scanning = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	s.bus.Publish(domain.NewScanStartedEvent(folderPath))
	s.logger.Info("scanning folder", slog.String("path", folderPath))

	var tracks []domain.TrackInfo
	err := filepath.WalkDir(folderPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == folderPath {
				return err
			}
			return nil
		}
		if d.IsDir() || !s.IsFormatSupported(path) {
			return nil
		}
		track, err := s.ExtractMetadata(path)
		if err != nil {
			s.logger.Debug("skipping file", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		tracks = append(tracks, track)
		return nil
	})

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Info("scan cancelled", slog.Int("tracks", len(tracks)))
		return tracks, domain.ErrScanCancelled
	case err != nil:
		return nil, domain.NewServiceError("LibraryService", "ScanFolder", "walk failed", err)
	}

	s.logger.Info("scan completed", slog.Int("tracks", len(tracks)))
	s.bus.Publish(domain.NewScanCompletedEvent(tracks))
	return tracks, nil
}

// CancelScan stops a running scan.
func (s *LibraryService) CancelScan() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.scanning {
		return domain.NewServiceError("LibraryService", "CancelScan", "no scan in progress", nil)
	}
	s.cancel()
	return nil
}

// IsScanning reports whether a scan is running.
func (s *LibraryService) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Shutdown cancels a running scan.
func (s *LibraryService) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
