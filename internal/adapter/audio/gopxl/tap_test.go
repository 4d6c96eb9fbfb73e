package gopxl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ramp emits 1, 2, 3, ... on the left channel and 0 on the right.
type ramp struct{ next float64 }

func (r *ramp) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		r.next++
		samples[i] = [2]float64{r.next, 0}
	}
	return len(samples), true
}

func (r *ramp) Err() error { return nil }

func TestTapKeepsLatestInOrder(t *testing.T) {
	tap := NewTap(&ramp{}, 8000, 4)
	tap.Stream(make([][2]float64, 6))

	dst := make([]float64, 3)
	assert.Equal(t, 3, tap.ReadSamples(dst))
	// mono mix halves the left channel: samples 4, 5, 6
	assert.Equal(t, []float64{2, 2.5, 3}, dst)
}

func TestTapLongerDestination(t *testing.T) {
	tap := NewTap(&ramp{}, 8000, 2)
	tap.Stream(make([][2]float64, 2))

	dst := []float64{-1, -1, -1}
	assert.Equal(t, 2, tap.ReadSamples(dst))
	assert.Equal(t, []float64{-1, 0.5, 1}, dst)
}

func TestBusSilentWhenIdle(t *testing.T) {
	bus := &Bus{}
	buf := [][2]float64{{1, 1}, {1, 1}}
	n, ok := bus.Stream(buf)
	assert.Equal(t, 2, n)
	assert.True(t, ok)
	assert.Equal(t, [][2]float64{{0, 0}, {0, 0}}, buf)
	assert.NoError(t, bus.Err())
}
