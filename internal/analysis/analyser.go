// Package analysis turns the engine's output samples into byte frequency
// data, the way a browser analyser node does: Blackman window, real FFT,
// time smoothing and a decibel range mapped onto 0..255.
package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
)

const (
	// DefaultFFTSize yields 64 frequency bins.
	DefaultFFTSize = 128

	MinFFTSize = 32
	MaxFFTSize = 32768

	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// Options tune an Analyser. Zero values fall back to the defaults.
type Options struct {
	Smoothing   float64 // 0 (none) to <1; negative means 0
	MinDecibels float64
	MaxDecibels float64
}

func (o Options) withDefaults() Options {
	if o.Smoothing < 0 {
		o.Smoothing = 0
	} else if o.Smoothing == 0 {
		o.Smoothing = DefaultSmoothing
	}
	if o.Smoothing >= 1 {
		o.Smoothing = DefaultSmoothing
	}
	if o.MinDecibels == 0 && o.MaxDecibels == 0 {
		o.MinDecibels, o.MaxDecibels = DefaultMinDecibels, DefaultMaxDecibels
	}
	if o.MinDecibels >= o.MaxDecibels {
		o.MinDecibels, o.MaxDecibels = DefaultMinDecibels, DefaultMaxDecibels
	}
	return o
}

// Analyser computes a smoothed magnitude spectrum from blocks of fftSize samples.
// It is not safe for concurrent use; Graph serializes access.
type Analyser struct {
	fftSize int
	opts    Options
	window  []float64
	frame   []float64
	smooth  []float64
}

// ValidFFTSize reports whether n is a power of two in [MinFFTSize, MaxFFTSize].
func ValidFFTSize(n int) bool {
	return n >= MinFFTSize && n <= MaxFFTSize && bits.OnesCount(uint(n)) == 1
}

// NewAnalyser creates an analyser for the given transform size.
func NewAnalyser(fftSize int, opts Options) (*Analyser, error) {
	if !ValidFFTSize(fftSize) {
		return nil, domain.NewValidationError("fftSize", fftSize, "not a power of two in range", domain.ErrInvalidFFTSize)
	}
	return &Analyser{
		fftSize: fftSize,
		opts:    opts.withDefaults(),
		window:  window.Blackman(fftSize),
		frame:   make([]float64, fftSize),
		smooth:  make([]float64, fftSize/2),
	}, nil
}

// FFTSize returns the transform size.
func (a *Analyser) FFTSize() int { return a.fftSize }

// FrequencyBinCount returns fftSize/2.
func (a *Analyser) FrequencyBinCount() int { return a.fftSize / 2 }

// Process analyses the latest block. samples shorter than fftSize are
// zero-padded at the front; longer input uses the trailing fftSize values.
func (a *Analyser) Process(samples []float64) {
	if len(samples) > a.fftSize {
		samples = samples[len(samples)-a.fftSize:]
	}
	pad := a.fftSize - len(samples)
	for i := 0; i < pad; i++ {
		a.frame[i] = 0
	}
	for i, s := range samples {
		a.frame[pad+i] = s * a.window[pad+i]
	}

	spectrum := fft.FFTReal(a.frame)
	scale := 1 / float64(a.fftSize)
	k := a.opts.Smoothing
	for i := range a.smooth {
		mag := cmplx.Abs(spectrum[i]) * scale
		v := k*a.smooth[i] + (1-k)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		a.smooth[i] = v
	}
}

// ByteFrequencyData writes the current spectrum into dst as bytes, one per
// bin, and returns the number of bins written.
func (a *Analyser) ByteFrequencyData(dst []uint8) int {
	n := min(len(dst), len(a.smooth))
	span := a.opts.MaxDecibels - a.opts.MinDecibels
	for i := 0; i < n; i++ {
		m := a.smooth[i]
		if m <= 0 {
			dst[i] = 0
			continue
		}
		db := 20 * math.Log10(m)
		scaled := 255 * (db - a.opts.MinDecibels) / span
		switch {
		case scaled <= 0:
			dst[i] = 0
		case scaled >= 255:
			dst[i] = 255
		default:
			dst[i] = uint8(scaled)
		}
	}
	return n
}

// Reset clears the smoothing history.
func (a *Analyser) Reset() {
	clear(a.smooth)
}
