package playback

import "time"

// SourceEventKind identifies a native event from an audio source.
type SourceEventKind int

// Source event kinds, mirroring a media element's event surface.
const (
	SourceStarted  SourceEventKind = iota // playback started or resumed
	SourceProgress                        // position advanced
	SourcePaused                          // playback paused
	SourceEnded                           // natural completion
	SourceFailed                          // playback could not start or aborted
)

// String returns the event kind name.
func (k SourceEventKind) String() string {
	switch k {
	case SourceStarted:
		return "started"
	case SourceProgress:
		return "progress"
	case SourcePaused:
		return "paused"
	case SourceEnded:
		return "ended"
	case SourceFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SourceEvent is one native event from an audio source.
type SourceEvent struct {
	Kind     SourceEventKind
	Position time.Duration
	Err      error // set for SourceFailed
}

// EventHandler receives source events. Handlers are invoked from the
// source's own goroutine; they must not block.
type EventHandler func(SourceEvent)

// Source is the audio element analog: something that plays one narration
// track and reports transport events. Implementations own the underlying
// resource; Close must release it and stop event delivery.
type Source interface {
	// Start begins playback from the beginning, delivering events to
	// handler until Close. Calling Start twice is an error.
	Start(handler EventHandler) error

	// Pause suspends playback. No-op unless playing.
	Pause() error

	// Resume continues paused playback, or restarts an ended track from
	// the beginning.
	Resume() error

	// Position returns the current playback position.
	Position() time.Duration

	// Duration returns the track length, or 0 if unknown.
	Duration() time.Duration

	// Close stops playback and releases the audio resource. After Close no
	// further events are delivered. Safe to call more than once.
	Close() error
}
