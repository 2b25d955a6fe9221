package playback

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWindController builds a controller with the default wind timing and
// leaves closing to the test, so timer goroutines must end on their own.
func newWindController(t *testing.T, pos time.Duration) (*controller, *MockSink, *MockDisplay) {
	t.Helper()
	sink := NewMockSink(testDuration)
	sink.SetCurrent(pos)
	display := NewMockDisplay(10, 100)
	c, ok := New(sink, Options{}, display).(*controller)
	require.True(t, ok)
	return c, sink, display
}

func TestWind_ForwardCoversFifteenSecondsPerSecond(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, sink, d := newWindController(t, 30*time.Second)

		require.NoError(t, c.ToggleForward())
		time.Sleep(time.Second + 100*time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 45*time.Second, sink.Position())
		assert.Equal(t, "00:00:45", d.TimeText())
		assert.True(t, d.Active(ButtonForward))

		require.NoError(t, c.TogglePlayPause())
		seeks := len(sink.SeekCalls())
		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, 45*time.Second, sink.Position())
		assert.Len(t, sink.SeekCalls(), seeks)
		assert.Equal(t, WindIdle, c.Snapshot().Wind)
		assert.False(t, d.Active(ButtonForward))
	})
}

func TestWind_SwitchingDirectionStopsTheOldTimer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, sink, d := newWindController(t, 30*time.Second)

		require.NoError(t, c.ToggleForward())
		time.Sleep(500 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 36*time.Second, sink.Position())

		require.NoError(t, c.ToggleRewind())
		time.Sleep(500 * time.Millisecond)
		synctest.Wait()

		// Two rewind ticks and no further forward ticks
		assert.Equal(t, 30*time.Second, sink.Position())
		assert.Equal(t, WindRewinding, c.Snapshot().Wind)
		assert.True(t, d.Active(ButtonRewind))
		assert.False(t, d.Active(ButtonForward))

		require.NoError(t, c.ToggleRewind())
		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, 30*time.Second, sink.Position())
		assert.Equal(t, WindIdle, c.Snapshot().Wind)
		assert.Equal(t, IconPause, d.Icon())
		assert.False(t, sink.Paused())
	})
}

func TestWind_RewindIntoStartStops(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, sink, d := newWindController(t, 5*time.Second)

		require.NoError(t, c.ToggleRewind())
		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, time.Duration(0), sink.Position())
		assert.Equal(t, WindIdle, c.Snapshot().Wind)
		assert.Equal(t, IconPlay, d.Icon())
		assert.True(t, sink.Paused())
		assert.False(t, d.Active(ButtonRewind))
		c.mu.Lock()
		assert.Nil(t, c.timer)
		c.mu.Unlock()
	})
}

func TestWind_StopEndsTimer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, sink, _ := newWindController(t, 30*time.Second)

		require.NoError(t, c.ToggleForward())
		time.Sleep(300 * time.Millisecond)
		require.NoError(t, c.Stop())
		seeks := len(sink.SeekCalls())

		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, time.Duration(0), sink.Position())
		assert.Len(t, sink.SeekCalls(), seeks)
	})
}

func TestWind_CloseEndsTimer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, sink, _ := newWindController(t, 30*time.Second)

		require.NoError(t, c.ToggleRewind())
		require.NoError(t, c.Close())

		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, 30*time.Second, sink.Position())
		assert.Empty(t, sink.SeekCalls())
		assert.ErrorIs(t, c.ToggleRewind(), ErrClosed)
	})
}

// A tick that fires after its timer was replaced must not step.
func TestWind_StaleTickIsDropped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c, sink, _ := newWindController(t, 30*time.Second)

		stale := &windTimer{dir: WindFastForwarding, stop: make(chan struct{})}
		done := make(chan struct{})
		go func() {
			c.runWind(stale, DefaultWindInterval)
			close(done)
		}()

		time.Sleep(time.Second)
		<-done

		assert.Equal(t, 30*time.Second, sink.Position())
		assert.Empty(t, sink.SeekCalls())
	})
}
