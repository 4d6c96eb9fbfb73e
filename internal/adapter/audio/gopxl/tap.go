package gopxl

import (
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// DefaultTapSize is the ring length in mono samples.
const DefaultTapSize = 8192

// Tap passes audio through to the speaker and keeps the most recent samples,
// mixed down to mono, for the analyser.
type Tap struct {
	s          beep.Streamer
	sampleRate beep.SampleRate

	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap wraps s with a ring buffer of size samples.
func NewTap(s beep.Streamer, sampleRate beep.SampleRate, size int) *Tap {
	if size <= 0 {
		size = DefaultTapSize
	}
	return &Tap{
		s:          s,
		sampleRate: sampleRate,
		buf:        make([]float64, size),
		size:       size,
	}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error {
	return t.s.Err()
}

// ReadSamples fills dst with the latest samples, oldest first. When dst is
// longer than the ring only the tail of dst is written.
func (t *Tap) ReadSamples(dst []float64) int {
	n := min(len(dst), t.size)
	dst = dst[len(dst)-n:]

	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		dst[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return n
}

// SampleRate returns the output rate.
func (t *Tap) SampleRate() int {
	return int(t.sampleRate)
}

var _ ports.SampleSource = (*Tap)(nil)
