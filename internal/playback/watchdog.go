package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/pubsub"
)

// Clock interface for time operations (allows testing).
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using the real time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// WatchdogConfig configures the playback watchdog.
type WatchdogConfig struct {
	// Broker is the playback event bus the watchdog observes and emits on.
	Broker *pubsub.Broker[Event]

	// CheckInterval is how often stall checks run. Defaults to 1 second.
	CheckInterval time.Duration

	// StallThreshold is how long playback may go without a progress event
	// before it is considered stalled. Defaults to 3 seconds.
	StallThreshold time.Duration

	// Clock is used for time operations (for testing). Defaults to real time.
	Clock Clock
}

// Watchdog detects stalled narration: a session that claims to be playing
// but has stopped emitting progress events (audio process wedged, machine
// asleep). It emits EventStalled once per stall and EventRecovered when
// progress returns. Detection only; recovery is up to the viewer.
type Watchdog struct {
	broker    *pubsub.Broker[Event]
	interval  time.Duration
	threshold time.Duration
	clock     Clock

	mu             sync.Mutex
	playing        bool
	stalled        bool
	lastProgressAt time.Time
	sessionID      string
	sceneID        string
	position       time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatchdog creates a watchdog with the given configuration.
func NewWatchdog(cfg WatchdogConfig) (*Watchdog, error) {
	if cfg.Broker == nil {
		return nil, fmt.Errorf("watchdog requires a broker")
	}
	interval := cfg.CheckInterval
	if interval == 0 {
		interval = time.Second
	}
	threshold := cfg.StallThreshold
	if threshold == 0 {
		threshold = 3 * time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Watchdog{
		broker:    cfg.Broker,
		interval:  interval,
		threshold: threshold,
		clock:     clock,
	}, nil
}

// Start begins the event and check loops. It is a no-op if already started.
// The broker subscription is taken before Start returns, so events
// published immediately afterwards are never missed.
func (w *Watchdog) Start(ctx context.Context) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	ch := w.broker.Subscribe(w.ctx)

	w.wg.Add(2)
	log.SafeGo("watchdog.eventLoop", func() {
		defer w.wg.Done()
		w.eventLoop(ch)
	})
	log.SafeGo("watchdog.checkLoop", func() {
		defer w.wg.Done()
		w.checkLoop()
	})
}

// Stop stops the loops and waits for them. Safe to call before Start or
// more than once.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
}

func (w *Watchdog) eventLoop(ch <-chan pubsub.Event[Event]) {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			w.observe(event.Payload)
		}
	}
}

// watchdogFilter drops the watchdog's own emissions from its view of the
// event stream.
var watchdogFilter = Filter{ExcludeTypes: []EventType{EventStalled, EventRecovered}}

// observe updates the tracked playback picture from one event.
func (w *Watchdog) observe(event Event) {
	if !watchdogFilter.Matches(event) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessionID = event.SessionID
	w.sceneID = event.SceneID
	w.position = event.Position

	switch event.Type {
	case EventProgress:
		w.lastProgressAt = w.clock.Now()
		if w.stalled {
			w.stalled = false
			w.emitLocked(EventRecovered, "")
		}
	case EventStarted, EventResumed:
		w.playing = true
		w.stalled = false
		w.lastProgressAt = w.clock.Now()
	case EventPaused, EventEnded, EventFailed:
		w.playing = false
		w.stalled = false
	}
}

func (w *Watchdog) checkLoop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.runCheck()
		}
	}
}

// RunCheck performs one stall check. Exported for tests driving the
// watchdog with a fake clock instead of the ticker.
func (w *Watchdog) RunCheck() {
	w.runCheck()
}

func (w *Watchdog) runCheck() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.playing || w.stalled {
		return
	}
	silence := w.clock.Now().Sub(w.lastProgressAt)
	if silence <= w.threshold {
		return
	}
	w.stalled = true
	log.Warn(log.CatPlayback, "Narration stalled", "scene", w.sceneID, "silence", silence.Truncate(time.Millisecond))
	w.emitLocked(EventStalled, "no progress for "+silence.Truncate(time.Millisecond).String())
}

// emitLocked publishes a watchdog event. Callers must hold mu.
func (w *Watchdog) emitLocked(eventType EventType, reason string) {
	event := NewEvent(eventType).
		WithSession(w.sessionID, w.sceneID).
		WithPosition(w.position, StatePlaying)
	if reason != "" {
		event = event.WithReason(reason)
	}
	// Publish asynchronously so the event loop never blocks on itself.
	log.SafeGo("watchdog.emit", func() {
		w.broker.Publish(pubsub.UpdatedEvent, event)
	})
}
