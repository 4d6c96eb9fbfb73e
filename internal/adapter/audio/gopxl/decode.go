package gopxl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

// decode opens path and picks the decoder from the extension. Closing the
// returned stream closes the file.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".wav", ".flac", ".ogg":
	default:
		return nil, beep.Format{}, domain.NewAudioEngineError("decode", path, "unsupported format "+ext, domain.ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, beep.Format{}, domain.NewAudioEngineError("open", path, "file not found", domain.ErrFileNotFound)
		}
		return nil, beep.Format{}, domain.NewAudioEngineError("open", path, "cannot open file", err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, domain.NewAudioEngineError("decode", path, "cannot decode", err)
	}

	return stream, format, nil
}
