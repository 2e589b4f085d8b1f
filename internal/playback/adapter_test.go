package playback

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadchur/ITC303-platARpus-v1/internal/avsync"
	"github.com/deadchur/ITC303-platARpus-v1/internal/pubsub"
)

// fakeSource is a hand-driven Source: tests call emit to simulate native
// audio events.
type fakeSource struct {
	handler  EventHandler
	startErr error
	position time.Duration

	startCalls  int
	pauseCalls  int
	resumeCalls int
	closeCalls  int
}

func (f *fakeSource) Start(handler EventHandler) error {
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	f.handler = handler
	return nil
}

func (f *fakeSource) Pause() error  { f.pauseCalls++; return nil }
func (f *fakeSource) Resume() error { f.resumeCalls++; return nil }

func (f *fakeSource) Position() time.Duration { return f.position }
func (f *fakeSource) Duration() time.Duration { return 0 }

func (f *fakeSource) Close() error {
	f.closeCalls++
	f.handler = nil
	return nil
}

func (f *fakeSource) emit(ev SourceEvent) {
	if f.handler != nil {
		f.handler(ev)
	}
}

// stateObserver records play-state notifications from the hub.
type stateObserver struct {
	states []bool
	times  []float64
}

func (o *stateObserver) OnTimeUpdate(seconds float64)   { o.times = append(o.times, seconds) }
func (o *stateObserver) OnPlayStateChange(playing bool) { o.states = append(o.states, playing) }

func newTestAdapter(t *testing.T, source Source, broker *pubsub.Broker[Event]) (*Adapter, *avsync.Hub, *stateObserver) {
	t.Helper()
	hub := avsync.NewHub()
	observer := &stateObserver{}
	hub.Subscribe(observer)

	adapter, err := NewAdapter(AdapterConfig{
		Hub:     hub,
		Source:  source,
		Broker:  broker,
		SceneID: "billabong",
	})
	require.NoError(t, err)
	return adapter, hub, observer
}

func TestNewAdapter_Validation(t *testing.T) {
	_, err := NewAdapter(AdapterConfig{Source: &fakeSource{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a hub")

	_, err = NewAdapter(AdapterConfig{Hub: avsync.NewHub()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a source")

	adapter, err := NewAdapter(AdapterConfig{Hub: avsync.NewHub(), Source: &fakeSource{}})
	require.NoError(t, err)
	assert.NotEmpty(t, adapter.SessionID(), "a session ID is generated when none is given")
}

func TestAdapter_PlayStateReachesHub(t *testing.T) {
	source := &fakeSource{}
	adapter, hub, observer := newTestAdapter(t, source, nil)
	require.NoError(t, adapter.Start())

	source.emit(SourceEvent{Kind: SourceStarted})
	assert.Equal(t, []bool{true}, observer.states)
	assert.True(t, hub.IsPlaying())
	assert.Equal(t, StatePlaying, adapter.State())

	source.emit(SourceEvent{Kind: SourcePaused, Position: 3 * time.Second})
	assert.Equal(t, []bool{true, false}, observer.states)
	assert.False(t, hub.IsPlaying())
	assert.Equal(t, StatePaused, adapter.State())
}

func TestAdapter_TimeUpdatesReachHub(t *testing.T) {
	source := &fakeSource{}
	adapter, hub, observer := newTestAdapter(t, source, nil)
	require.NoError(t, adapter.Start())

	source.emit(SourceEvent{Kind: SourceStarted})
	source.emit(SourceEvent{Kind: SourceProgress, Position: 12500 * time.Millisecond})

	assert.Equal(t, 12.5, hub.CurrentTime())
	require.Equal(t, []float64{12.5}, observer.times)
}

func TestAdapter_EndedLooksLikePauseToHub(t *testing.T) {
	source := &fakeSource{}
	adapter, _, observer := newTestAdapter(t, source, nil)
	require.NoError(t, adapter.Start())

	source.emit(SourceEvent{Kind: SourceStarted})
	source.emit(SourceEvent{Kind: SourceEnded, Position: 24 * time.Second})

	// The hub observer cannot tell ended from paused: both are false.
	assert.Equal(t, []bool{true, false}, observer.states)
	assert.Equal(t, StateEnded, adapter.State())
}

func TestAdapter_OutOfOrderEventsDropped(t *testing.T) {
	source := &fakeSource{}
	adapter, _, observer := newTestAdapter(t, source, nil)
	require.NoError(t, adapter.Start())

	// Paused before anything started: invalid transition, no notification.
	source.emit(SourceEvent{Kind: SourcePaused})
	assert.Empty(t, observer.states)
	assert.Equal(t, StateIdle, adapter.State())

	// Ended from idle is likewise dropped.
	source.emit(SourceEvent{Kind: SourceEnded})
	assert.Empty(t, observer.states)
	assert.Equal(t, StateIdle, adapter.State())
}

func TestAdapter_StartFailurePublishesAndReturns(t *testing.T) {
	broker := pubsub.NewBroker[Event]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := broker.Subscribe(ctx)

	source := &fakeSource{startErr: fmt.Errorf("no player on PATH")}
	adapter, _, observer := newTestAdapter(t, source, broker)

	err := adapter.Start()
	require.Error(t, err)

	select {
	case got := <-events:
		assert.Equal(t, EventFailed, got.Payload.Type)
		assert.Contains(t, got.Payload.Reason, "no player")
	case <-time.After(time.Second):
		t.Fatal("expected a failure event on the broker")
	}

	// Failure to start never reaches the hub; the animation just stays frozen.
	assert.Empty(t, observer.states)
}

func TestAdapter_PublishesTransportEnvelopes(t *testing.T) {
	broker := pubsub.NewBroker[Event]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := broker.Subscribe(ctx)

	source := &fakeSource{}
	adapter, _, _ := newTestAdapter(t, source, broker)
	require.NoError(t, adapter.Start())

	source.emit(SourceEvent{Kind: SourceStarted})
	source.emit(SourceEvent{Kind: SourcePaused, Position: time.Second})
	source.emit(SourceEvent{Kind: SourceStarted, Position: time.Second})

	want := []EventType{EventStarted, EventPaused, EventResumed}
	for _, wantType := range want {
		select {
		case got := <-events:
			assert.Equal(t, wantType, got.Payload.Type)
			assert.Equal(t, adapter.SessionID(), got.Payload.SessionID)
			assert.Equal(t, "billabong", got.Payload.SceneID)
		case <-time.After(time.Second):
			t.Fatalf("expected %s on the broker", wantType)
		}
	}
}

func TestAdapter_CloseDropsLateEvents(t *testing.T) {
	source := &fakeSource{}
	adapter, hub, observer := newTestAdapter(t, source, nil)
	require.NoError(t, adapter.Start())

	source.emit(SourceEvent{Kind: SourceStarted})
	handler := source.handler // keep delivering after Close, like a racing tick

	require.NoError(t, adapter.Close())
	assert.Equal(t, 1, source.closeCalls)
	assert.False(t, hub.IsPlaying(), "close while playing stops the animation")

	statesAtClose := len(observer.states)
	handler(SourceEvent{Kind: SourceProgress, Position: time.Minute})
	handler(SourceEvent{Kind: SourceStarted})

	assert.Len(t, observer.states, statesAtClose, "events after Close must be dropped")
	assert.NotEqual(t, 60.0, hub.CurrentTime())

	// Close is idempotent.
	require.NoError(t, adapter.Close())
	assert.Equal(t, 1, source.closeCalls)
}

func TestAdapter_TransportProxies(t *testing.T) {
	source := &fakeSource{}
	adapter, _, _ := newTestAdapter(t, source, nil)
	require.NoError(t, adapter.Start())

	require.NoError(t, adapter.Pause())
	require.NoError(t, adapter.Play())
	assert.Equal(t, 1, source.pauseCalls)
	assert.Equal(t, 1, source.resumeCalls)
}
