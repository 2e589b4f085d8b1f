package playback

import (
	"slices"
	"time"
)

// EventType categorizes playback events published on the broker.
type EventType string

const (
	// Transport lifecycle events
	EventStarted EventType = "playback.started"
	EventPaused  EventType = "playback.paused"
	EventResumed EventType = "playback.resumed"
	EventEnded   EventType = "playback.ended"

	// Position events, emitted at the progress interval while playing
	EventProgress EventType = "playback.progress"

	// Failure events (non-fatal; playback simply does not start)
	EventFailed EventType = "playback.failed"

	// Watchdog events
	EventStalled   EventType = "playback.stalled"
	EventRecovered EventType = "playback.recovered"
)

// Event is the envelope for all playback events. The same envelope is used
// for transport, progress, and watchdog events so consumers can subscribe
// once and filter.
type Event struct {
	// Type identifies the kind of event.
	Type EventType
	// Timestamp when the event occurred.
	Timestamp time.Time

	// Session context
	SessionID string
	SceneID   string

	// Position is the narration position when the event occurred.
	Position time.Duration
	// State is the playback state after the event.
	State State

	// Reason carries failure detail for EventFailed / EventStalled.
	Reason string
}

// NewEvent creates an event of the given type with the current timestamp.
func NewEvent(eventType EventType) Event {
	return Event{Type: eventType, Timestamp: time.Now()}
}

// WithSession adds session context to the event.
func (e Event) WithSession(sessionID, sceneID string) Event {
	e.SessionID = sessionID
	e.SceneID = sceneID
	return e
}

// WithPosition adds the playback position and resulting state.
func (e Event) WithPosition(pos time.Duration, state State) Event {
	e.Position = pos
	e.State = state
	return e
}

// WithReason adds failure detail to the event.
func (e Event) WithReason(reason string) Event {
	e.Reason = reason
	return e
}

// IsTransportEvent returns true for start/pause/resume/end events.
func (t EventType) IsTransportEvent() bool {
	switch t {
	case EventStarted, EventPaused, EventResumed, EventEnded:
		return true
	default:
		return false
	}
}

// IsWatchdogEvent returns true for stall detection events.
func (t EventType) IsWatchdogEvent() bool {
	return t == EventStalled || t == EventRecovered
}

// String returns the string representation of the EventType.
func (t EventType) String() string {
	return string(t)
}

// Filter defines criteria for selecting playback events. All criteria are
// AND'd together; an empty filter matches every event.
type Filter struct {
	// Types limits events to these types. Empty allows all.
	Types []EventType

	// SceneIDs limits events to these scenes. Empty allows all.
	SceneIDs []string

	// ExcludeTypes drops events of these types, applied after Types.
	ExcludeTypes []EventType
}

// Matches returns true if the event passes the filter.
func (f *Filter) Matches(event Event) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, event.Type) {
		return false
	}
	if len(f.SceneIDs) > 0 && !slices.Contains(f.SceneIDs, event.SceneID) {
		return false
	}
	if len(f.ExcludeTypes) > 0 && slices.Contains(f.ExcludeTypes, event.Type) {
		return false
	}
	return true
}

// IsEmpty returns true if the filter has no criteria set.
func (f *Filter) IsEmpty() bool {
	return len(f.Types) == 0 && len(f.SceneIDs) == 0 && len(f.ExcludeTypes) == 0
}
