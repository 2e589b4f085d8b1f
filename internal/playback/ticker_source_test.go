package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector gathers source events behind a mutex; ticker events arrive on a
// background goroutine.
type collector struct {
	mu     sync.Mutex
	events []SourceEvent
}

func (c *collector) handle(ev SourceEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) kinds() []SourceEventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]SourceEventKind, len(c.events))
	for i, ev := range c.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (c *collector) has(kind SourceEventKind) bool {
	for _, k := range c.kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func TestTickerSource_EmitsStartedProgressEnded(t *testing.T) {
	src := NewTickerSource(200*time.Millisecond, 10*time.Millisecond)
	c := &collector{}
	require.NoError(t, src.Start(c.handle))
	defer func() { _ = src.Close() }()

	require.Eventually(t, func() bool { return c.has(SourceEnded) },
		2*time.Second, 10*time.Millisecond, "silent track should end")

	kinds := c.kinds()
	assert.Equal(t, SourceStarted, kinds[0], "first event is started")
	assert.True(t, c.has(SourceProgress), "progress events while playing")
	assert.Equal(t, SourceEnded, kinds[len(kinds)-1], "last event is ended")

	// Position is clamped at the track length after the end.
	assert.Equal(t, 200*time.Millisecond, src.Position())
}

func TestTickerSource_PauseFreezesPosition(t *testing.T) {
	src := NewTickerSource(10*time.Second, 10*time.Millisecond)
	c := &collector{}
	require.NoError(t, src.Start(c.handle))
	defer func() { _ = src.Close() }()

	require.Eventually(t, func() bool { return c.has(SourceProgress) },
		2*time.Second, 5*time.Millisecond)

	require.NoError(t, src.Pause())
	assert.True(t, c.has(SourcePaused))

	frozen := src.Position()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, src.Position(), "position must not advance while paused")

	// Pausing again is a no-op.
	require.NoError(t, src.Pause())
}

func TestTickerSource_ResumeContinues(t *testing.T) {
	src := NewTickerSource(10*time.Second, 10*time.Millisecond)
	c := &collector{}
	require.NoError(t, src.Start(c.handle))
	defer func() { _ = src.Close() }()

	require.NoError(t, src.Pause())
	paused := src.Position()

	require.NoError(t, src.Resume())
	require.Eventually(t, func() bool { return src.Position() > paused },
		2*time.Second, 5*time.Millisecond, "position advances after resume")
}

func TestTickerSource_ResumeAfterEndedRestarts(t *testing.T) {
	src := NewTickerSource(30*time.Millisecond, 5*time.Millisecond)
	c := &collector{}
	require.NoError(t, src.Start(c.handle))
	defer func() { _ = src.Close() }()

	require.Eventually(t, func() bool { return c.has(SourceEnded) },
		2*time.Second, 5*time.Millisecond)

	require.NoError(t, src.Resume())
	assert.Less(t, src.Position(), 30*time.Millisecond, "restart begins from zero")
}

func TestTickerSource_Lifecycle(t *testing.T) {
	src := NewTickerSource(time.Second, 10*time.Millisecond)

	// Transport before Start is rejected.
	require.Error(t, src.Resume())

	c := &collector{}
	require.NoError(t, src.Start(c.handle))
	require.Error(t, src.Start(c.handle), "double start is rejected")

	require.NoError(t, src.Close())
	require.NoError(t, src.Close(), "close is idempotent")

	countAtClose := len(c.kinds())
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, c.kinds(), countAtClose, "no events after close")
}

func TestTickerSource_Duration(t *testing.T) {
	src := NewTickerSource(42*time.Second, 0)
	assert.Equal(t, 42*time.Second, src.Duration())
}
