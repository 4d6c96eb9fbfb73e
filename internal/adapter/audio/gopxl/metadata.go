package gopxl

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// MetadataReader reads ID3, Vorbis comment and FLAC tags. The duration
// comes from the decoder header.
type MetadataReader struct{}

// NewMetadataReader creates a metadata reader.
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// ReadMetadata returns the track for path. Missing tags are not an error;
// the title then stays the file name.
func (r *MetadataReader) ReadMetadata(path string) (*domain.TrackInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, domain.NewAudioEngineError("metadata", path, "cannot open file", err)
	}
	defer file.Close()

	track := domain.NewTrackInfo(path)

	if m, err := tag.ReadFrom(file); err == nil && m != nil {
		if title := strings.TrimSpace(m.Title()); title != "" {
			track.Title = title
		}
		track.Artist = strings.TrimSpace(m.Artist())
		track.Album = strings.TrimSpace(m.Album())
	}

	if stream, format, err := decode(path); err == nil {
		track.Duration = format.SampleRate.D(stream.Len())
		_ = stream.Close()
	}
	return &track, nil
}

var _ ports.MetadataReader = (*MetadataReader)(nil)
