package playback

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/deadchur/ITC303-platARpus-v1/internal/avsync"
	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/pubsub"
)

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// Hub receives the time and play-state notifications.
	Hub *avsync.Hub

	// Source is the narration audio source. The adapter takes ownership
	// and closes it on teardown.
	Source Source

	// Broker, if non-nil, receives the playback event envelopes for UI
	// consumption.
	Broker *pubsub.Broker[Event]

	// SceneID tags published events.
	SceneID string

	// SessionID tags published events; a fresh UUID is generated if empty.
	SessionID string
}

// Adapter bridges a Source's native events onto the avsync hub, running
// them through the explicit playback state machine so that "ended" reaches
// the hub as a play-state change to false, exactly like "paused".
//
// The adapter owns the source: Close releases the audio resource and stops
// event delivery, so no bindings leak across viewer mounts. Events that
// arrive after Close (a progress tick racing teardown) are dropped.
type Adapter struct {
	hub       *avsync.Hub
	source    Source
	broker    *pubsub.Broker[Event]
	machine   *Machine
	sceneID   string
	sessionID string
	closed    atomic.Bool
}

// NewAdapter creates an adapter. Hub and Source are required.
func NewAdapter(cfg AdapterConfig) (*Adapter, error) {
	if cfg.Hub == nil {
		return nil, fmt.Errorf("adapter requires a hub")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("adapter requires a source")
	}
	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Adapter{
		hub:       cfg.Hub,
		source:    cfg.Source,
		broker:    cfg.Broker,
		machine:   NewMachine(),
		sceneID:   cfg.SceneID,
		sessionID: sessionID,
	}, nil
}

// Start begins narration playback. A start failure (player missing, file
// unreadable, command rejected) is returned after being published; callers
// treat it as non-fatal per the degradation policy: the animation stays
// frozen and the viewer keeps running.
func (a *Adapter) Start() error {
	if err := a.source.Start(a.handleSourceEvent); err != nil {
		log.Warn(log.CatPlayback, "Narration playback did not start", "scene", a.sceneID, "error", err)
		a.publish(NewEvent(EventFailed).
			WithPosition(0, a.machine.State()).
			WithReason(err.Error()))
		return err
	}
	return nil
}

// Play resumes paused narration, or restarts it after it has ended.
func (a *Adapter) Play() error {
	return a.source.Resume()
}

// Pause suspends narration.
func (a *Adapter) Pause() error {
	return a.source.Pause()
}

// State returns the current playback state.
func (a *Adapter) State() State {
	return a.machine.State()
}

// Position returns the current narration position.
func (a *Adapter) Position() time.Duration {
	return a.source.Position()
}

// Duration returns the narration length, or 0 if the source cannot tell.
func (a *Adapter) Duration() time.Duration {
	return a.source.Duration()
}

// SessionID returns the playback session identifier used in events.
func (a *Adapter) SessionID() string {
	return a.sessionID
}

// Close tears the adapter down: the source is closed and released, late
// source events are dropped, and the hub is told playback stopped if it
// was running.
func (a *Adapter) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	wasPlaying := a.machine.State().IsPlaying()
	err := a.source.Close()

	if wasPlaying {
		if _, terr := a.machine.Transition(StateEnded); terr == nil {
			a.hub.NotifyPlayStateChange(false)
		}
	}
	log.Debug(log.CatPlayback, "Adapter closed", "scene", a.sceneID, "session", a.sessionID)
	return err
}

// handleSourceEvent translates one native source event. It runs on the
// source's event goroutine; hub dispatch is synchronous from here.
func (a *Adapter) handleSourceEvent(ev SourceEvent) {
	if a.closed.Load() {
		return
	}

	switch ev.Kind {
	case SourceStarted:
		prev := a.machine.State()
		changed, err := a.machine.Transition(StatePlaying)
		if err != nil {
			log.Warn(log.CatPlayback, "Dropping out-of-order start event", "state", prev, "error", err)
			return
		}
		if !changed {
			return
		}
		a.hub.NotifyPlayStateChange(true)
		eventType := EventStarted
		if prev == StatePaused {
			eventType = EventResumed
		}
		a.publish(NewEvent(eventType).WithPosition(ev.Position, StatePlaying))

	case SourceProgress:
		a.hub.NotifyTimeUpdate(ev.Position.Seconds())
		a.publish(NewEvent(EventProgress).WithPosition(ev.Position, a.machine.State()))

	case SourcePaused:
		changed, err := a.machine.Transition(StatePaused)
		if err != nil || !changed {
			return
		}
		a.hub.NotifyPlayStateChange(false)
		a.publish(NewEvent(EventPaused).WithPosition(ev.Position, StatePaused))

	case SourceEnded:
		// Playing -> Ended is the one terminal transition; the hub sees it
		// as the same signal as a pause.
		changed, err := a.machine.Transition(StateEnded)
		if err != nil || !changed {
			return
		}
		a.hub.NotifyTimeUpdate(ev.Position.Seconds())
		a.hub.NotifyPlayStateChange(false)
		a.publish(NewEvent(EventEnded).WithPosition(ev.Position, StateEnded))

	case SourceFailed:
		log.Warn(log.CatPlayback, "Narration source failed", "scene", a.sceneID, "error", ev.Err)
		if changed, err := a.machine.Transition(StateEnded); err == nil && changed {
			a.hub.NotifyPlayStateChange(false)
		}
		event := NewEvent(EventFailed).WithPosition(ev.Position, a.machine.State())
		if ev.Err != nil {
			event = event.WithReason(ev.Err.Error())
		}
		a.publish(event)
	}
}

func (a *Adapter) publish(event Event) {
	if a.broker == nil {
		return
	}
	a.broker.Publish(pubsub.UpdatedEvent, event.WithSession(a.sessionID, a.sceneID))
}
