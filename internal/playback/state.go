// Package playback bridges a narration audio source to the avsync hub.
// It owns the audio resource, the playback state machine, and the event
// fan-out consumed by the UI.
package playback

import (
	"fmt"
	"sync"
)

// State is the playback lifecycle state of a narration source.
type State int

// Playback states. Only the Playing / not-Playing distinction is visible to
// the avsync hub; the rest exists so transitions (in particular the terminal
// Ended state) are explicit and testable.
const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateEnded
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsPlaying reports the single bit the sync hub observes.
func (s State) IsPlaying() bool {
	return s == StatePlaying
}

// validTransitions is the playback transition table:
// Idle→Playing on play start, Playing→Paused on pause, Playing→Ended on
// natural completion, Paused→Playing on resume, and Ended→Playing on a new
// play command. Ended is terminal until that new command.
var validTransitions = map[State][]State{
	StateIdle:    {StatePlaying},
	StatePlaying: {StatePaused, StateEnded},
	StatePaused:  {StatePlaying},
	StateEnded:   {StatePlaying},
}

// InvalidTransitionError reports a transition outside the table.
type InvalidTransitionError struct {
	From State
	To   State
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid playback transition %s -> %s", e.From, e.To)
}

// Machine is a mutex-guarded playback state machine starting at Idle.
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine creates a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Transition moves to the target state if the table allows it. A self
// transition is a no-op (reported as no change, no error).
func (m *Machine) Transition(to State) (changed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == to {
		return false, nil
	}
	for _, allowed := range validTransitions[m.state] {
		if allowed == to {
			m.state = to
			return true, nil
		}
	}
	return false, &InvalidTransitionError{From: m.state, To: to}
}
