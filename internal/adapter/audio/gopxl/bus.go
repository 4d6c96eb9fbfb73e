package gopxl

import (
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// resampleQuality is passed to beep.ResampleRatio.
const resampleQuality = 4

// voice is one decoded track with its own rate, volume and pause controls.
type voice struct {
	stream     beep.StreamSeekCloser
	format     beep.Format
	resampler  *beep.Resampler
	volume     *effects.Volume
	ctrl       *beep.Ctrl
	linear     float64
	finished   bool
	outputRate beep.SampleRate
}

func newVoice(stream beep.StreamSeekCloser, format beep.Format, outputRate beep.SampleRate, rate float64) *voice {
	v := &voice{
		stream:     stream,
		format:     format,
		outputRate: outputRate,
		linear:     1,
	}
	v.resampler = beep.ResampleRatio(resampleQuality, v.ratio(rate), stream)
	v.volume = &effects.Volume{Streamer: v.resampler, Base: 2}
	v.ctrl = &beep.Ctrl{Streamer: v.volume, Paused: true}
	return v
}

// ratio converts the file rate to the output rate and applies the speed.
func (v *voice) ratio(rate float64) float64 {
	return float64(v.format.SampleRate) / float64(v.outputRate) * rate
}

// rewind restarts the stream with a fresh resampler, dropping whatever the
// old one had buffered.
func (v *voice) rewind(rate float64) error {
	if err := v.stream.Seek(0); err != nil {
		return err
	}
	v.resampler = beep.ResampleRatio(resampleQuality, v.ratio(rate), v.stream)
	v.volume.Streamer = v.resampler
	v.finished = false
	return nil
}

func (v *voice) setRate(rate float64) {
	v.resampler.SetRatio(v.ratio(rate))
}

// setVolume maps a linear 0..1 volume onto the exponential effects.Volume.
func (v *voice) setVolume(linear float64) {
	v.linear = linear
	if linear <= 0 {
		v.volume.Silent = true
		return
	}
	v.volume.Silent = false
	v.volume.Volume = math.Log2(linear)
}

// Bus is the single streamer handed to the speaker. It plays at most one
// voice and writes silence otherwise, so the speaker and the tap never run dry.
type Bus struct {
	mu      sync.Mutex
	current *voice
}

// Stream implements beep.Streamer. It always fills samples.
func (b *Bus) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	filled := 0
	if v := b.current; v != nil && !v.finished && !v.ctrl.Paused {
		n, ok := v.ctrl.Stream(samples)
		filled = n
		if !ok || n < len(samples) {
			v.finished = true
		}
	}
	clear(samples[filled:])
	return len(samples), true
}

// Err implements beep.Streamer.
func (b *Bus) Err() error {
	return nil
}

// with runs fn while the speaker cannot pull samples.
func (b *Bus) with(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}
