package frame

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/testutil"
)

func TestTickerFiresOnce(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	ticker := NewTicker(120, nil)
	defer ticker.Close()

	fired := make(chan time.Time, 2)
	ticker.RequestFrame(func(now time.Time) { fired <- now })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("frame callback did not fire")
	}
	assert.Eventually(t, func() bool { return ticker.Pending() == 0 }, time.Second, time.Millisecond)

	select {
	case <-fired:
		t.Fatal("callback fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTickerCancel(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	ticker := NewTicker(10, nil)
	defer ticker.Close()

	var calls int32
	handle := ticker.RequestFrame(func(time.Time) { atomic.AddInt32(&calls, 1) })
	require.Equal(t, 1, ticker.Pending())

	ticker.CancelFrame(handle)
	ticker.CancelFrame(handle)
	ticker.CancelFrame(0)
	assert.Equal(t, 0, ticker.Pending())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTickerUsesDispatcher(t *testing.T) {
	var dispatched int32
	done := make(chan struct{})
	ticker := NewTicker(120, func(fn func()) {
		atomic.AddInt32(&dispatched, 1)
		fn()
	})
	defer ticker.Close()

	ticker.RequestFrame(func(time.Time) { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frame callback did not fire")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&dispatched))
}

func TestTickerClosed(t *testing.T) {
	ticker := NewTicker(0, nil)
	assert.Equal(t, time.Second/DefaultFPS, ticker.Interval())

	ticker.RequestFrame(func(time.Time) {})
	ticker.Close()
	assert.Equal(t, 0, ticker.Pending())

	h := ticker.RequestFrame(func(time.Time) { t.Error("closed ticker fired") })
	assert.NotZero(t, h)
	assert.Equal(t, 0, ticker.Pending())
}

func TestManualStep(t *testing.T) {
	m := NewManual()

	var order []int
	m.RequestFrame(func(time.Time) { order = append(order, 1) })
	second := m.RequestFrame(func(time.Time) { order = append(order, 2) })
	m.RequestFrame(func(time.Time) {
		order = append(order, 3)
		m.RequestFrame(func(time.Time) { order = append(order, 4) })
	})
	m.CancelFrame(second)
	m.CancelFrame(second)

	assert.Equal(t, 2, m.Step(time.Now()))
	assert.Equal(t, []int{1, 3}, order)
	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, 1, m.Cancels())

	m.Step(time.Now())
	assert.Equal(t, []int{1, 3, 4}, order)
	assert.Equal(t, 4, m.Requests())
}
