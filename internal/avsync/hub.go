// Package avsync couples an audio playback source to one or more animation
// consumers. The Hub is a small synchronous observer list: the playback
// adapter pushes time and play-state changes in, and registered observers
// (typically animation drivers) react immediately, on the caller's goroutine.
package avsync

import (
	"slices"
	"sync"
)

// Observer receives playback notifications from a Hub.
//
// OnTimeUpdate reports the current playback position in seconds.
// OnPlayStateChange reports whether audio is currently playing; "ended" and
// "paused" are both delivered as false.
type Observer interface {
	OnTimeUpdate(seconds float64)
	OnPlayStateChange(playing bool)
}

// Hub relays playback events to subscribed observers in subscription order.
//
// Dispatch is synchronous and sequential. The hub snapshots the observer
// list before each dispatch, so an observer may unsubscribe itself (or
// others) from within a callback without affecting delivery for the pass in
// progress. Observer panics are not recovered; they propagate to whichever
// caller invoked the notify method.
//
// The zero value is not usable; create hubs with NewHub.
type Hub struct {
	mu        sync.Mutex
	observers []Observer
	time      float64
	playing   bool
}

// NewHub creates a hub with no observers, time zero, and playback stopped.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe appends the observer to the notification list. Subscribing the
// same observer twice is permitted and results in duplicate notifications;
// callers that care must avoid it themselves.
func (h *Hub) Subscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

// Unsubscribe removes every occurrence of the observer, matched by identity.
// Removing an observer that was never subscribed is a no-op.
func (h *Hub) Unsubscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = slices.DeleteFunc(h.observers, func(existing Observer) bool {
		return existing == o
	})
}

// NotifyTimeUpdate records seconds as the current playback position, then
// delivers it to each observer in subscription order.
func (h *Hub) NotifyTimeUpdate(seconds float64) {
	h.mu.Lock()
	h.time = seconds
	snapshot := slices.Clone(h.observers)
	h.mu.Unlock()

	for _, o := range snapshot {
		o.OnTimeUpdate(seconds)
	}
}

// NotifyPlayStateChange records the play state, then delivers it to each
// observer in subscription order.
func (h *Hub) NotifyPlayStateChange(playing bool) {
	h.mu.Lock()
	h.playing = playing
	snapshot := slices.Clone(h.observers)
	h.mu.Unlock()

	for _, o := range snapshot {
		o.OnPlayStateChange(playing)
	}
}

// CurrentTime returns the last playback position delivered to the hub.
func (h *Hub) CurrentTime() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.time
}

// IsPlaying returns the last play state delivered to the hub.
func (h *Hub) IsPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// ObserverCount returns the current number of subscriptions, counting
// duplicates.
func (h *Hub) ObserverCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}
