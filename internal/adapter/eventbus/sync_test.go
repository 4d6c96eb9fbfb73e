package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
	"github.com/tejashwikalptaru/tunedeck/internal/testutil"
)

func newBus() *SyncEventBus {
	return NewSyncEventBus(logger.NewTestLogger())
}

func TestPublishSubscribe(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var received []domain.Event
	id := bus.Subscribe(domain.EventTrackStarted, func(e domain.Event) {
		received = append(received, e)
	})
	require.NotEmpty(t, id)

	track := domain.NewTrackInfo("/music/a.mp3")
	bus.Publish(domain.NewTrackStartedEvent(track))
	bus.Publish(domain.NewTrackPausedEvent(track, time.Second))

	require.Len(t, received, 1)
	started, ok := received[0].(domain.TrackStartedEvent)
	require.True(t, ok)
	assert.Equal(t, "a.mp3", started.Track.FileName)
}

func TestDeliveryOrder(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var order []string
	bus.SubscribeAll(func(domain.Event) { order = append(order, "all") })
	first := bus.Subscribe(domain.EventThemeChanged, func(domain.Event) { order = append(order, "first") })
	bus.Subscribe(domain.EventThemeChanged, func(domain.Event) { order = append(order, "second") })
	bus.Subscribe(domain.EventThemeChanged, func(domain.Event) { order = append(order, "third") })

	bus.Publish(domain.NewThemeChangedEvent(domain.ThemeLight))
	assert.Equal(t, []string{"first", "second", "third", "all"}, order)

	order = nil
	bus.Unsubscribe(first)
	bus.Publish(domain.NewThemeChangedEvent(domain.ThemeDark))
	assert.Equal(t, []string{"second", "third", "all"}, order)
}

func TestUnsubscribeUnknownIsNoop(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	bus.Subscribe(domain.EventTrackAdded, func(domain.Event) {})
	bus.Unsubscribe("missing")
	bus.Unsubscribe("")
	assert.Equal(t, 1, bus.SubscriberCount())
}

func TestHasSubscribers(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	assert.False(t, bus.HasSubscribers(domain.EventTrackAdded))
	bus.Subscribe(domain.EventTrackAdded, func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventTrackAdded))
	assert.False(t, bus.HasSubscribers(domain.EventTrackPaused))

	bus.SubscribeAll(func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventTrackPaused))
}

func TestHandlerPanicDoesNotStopDelivery(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var calls int32
	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) { panic("boom") })
	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) { atomic.AddInt32(&calls, 1) })

	assert.NotPanics(t, func() {
		bus.Publish(domain.NewTrackStartedEvent(domain.TrackInfo{}))
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubscribeFromHandler(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	var late int32
	bus.Subscribe(domain.EventTrackAdded, func(domain.Event) {
		bus.Subscribe(domain.EventTrackAdded, func(domain.Event) { atomic.AddInt32(&late, 1) })
	})

	bus.Publish(domain.NewTrackAddedEvent(domain.TrackInfo{}, 0))
	assert.Equal(t, int32(0), atomic.LoadInt32(&late))

	bus.Publish(domain.NewTrackAddedEvent(domain.TrackInfo{}, 1))
	assert.Equal(t, int32(1), atomic.LoadInt32(&late))
}

func TestClose(t *testing.T) {
	bus := newBus()

	var calls int32
	bus.Subscribe(domain.EventTrackStarted, func(domain.Event) { atomic.AddInt32(&calls, 1) })
	require.NoError(t, bus.Close())
	assert.Equal(t, 0, bus.SubscriberCount())

	bus.Publish(domain.NewTrackStartedEvent(domain.TrackInfo{}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Empty(t, bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {}))
	assert.ErrorIs(t, bus.Close(), ErrClosed)
}

func TestNilArguments(t *testing.T) {
	bus := newBus()
	defer bus.Close()

	assert.NotPanics(t, func() { bus.Publish(nil) })
	assert.Panics(t, func() { bus.Subscribe(domain.EventTrackStarted, nil) })
	assert.Panics(t, func() { bus.SubscribeAll(nil) })
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	bus := newBus()
	defer bus.Close()

	var calls int64
	bus.Subscribe(domain.EventTrackProgress, func(domain.Event) { atomic.AddInt64(&calls, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(domain.NewTrackProgressEvent(time.Second, time.Minute))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				id := bus.Subscribe(domain.EventTrackProgress, func(domain.Event) {})
				bus.Unsubscribe(id)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), atomic.LoadInt64(&calls))
	assert.Equal(t, 1, bus.SubscriberCount())
}
