package avsync

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// recordingObserver captures every notification it receives, in order.
type recordingObserver struct {
	name   string
	events []string
}

func (r *recordingObserver) OnTimeUpdate(seconds float64) {
	r.events = append(r.events, fmt.Sprintf("time:%.2f", seconds))
}

func (r *recordingObserver) OnPlayStateChange(playing bool) {
	r.events = append(r.events, fmt.Sprintf("play:%t", playing))
}

// unsubscribingObserver removes a target observer (possibly itself) from the
// hub the first time it is notified.
type unsubscribingObserver struct {
	recordingObserver
	hub    *Hub
	target Observer
	done   bool
}

func (u *unsubscribingObserver) OnPlayStateChange(playing bool) {
	u.recordingObserver.OnPlayStateChange(playing)
	if !u.done {
		u.hub.Unsubscribe(u.target)
		u.done = true
	}
}

func TestHub_TimeUpdateRecordsAndDelivers(t *testing.T) {
	hub := NewHub()
	o := &recordingObserver{name: "o"}
	hub.Subscribe(o)

	hub.NotifyTimeUpdate(12.5)

	assert.Equal(t, 12.5, hub.CurrentTime())
	require.Equal(t, []string{"time:12.50"}, o.events)
}

func TestHub_PlayStateDeliveredInSubscriptionOrder(t *testing.T) {
	hub := NewHub()
	var order []string
	o1 := &orderObserver{name: "o1", order: &order}
	o2 := &orderObserver{name: "o2", order: &order}
	hub.Subscribe(o1)
	hub.Subscribe(o2)

	hub.NotifyPlayStateChange(true)

	assert.True(t, hub.IsPlaying())
	require.Equal(t, []string{"o1", "o2"}, order)
}

// orderObserver appends its name to a shared slice on every notification.
type orderObserver struct {
	name  string
	order *[]string
}

func (o *orderObserver) OnTimeUpdate(float64)   { *o.order = append(*o.order, o.name) }
func (o *orderObserver) OnPlayStateChange(bool) { *o.order = append(*o.order, o.name) }

func TestHub_UnsubscribedObserverReceivesNothing(t *testing.T) {
	hub := NewHub()
	o1 := &recordingObserver{name: "o1"}
	o2 := &recordingObserver{name: "o2"}
	hub.Subscribe(o1)
	hub.Subscribe(o2)

	hub.Unsubscribe(o1)
	hub.NotifyPlayStateChange(false)

	assert.Empty(t, o1.events)
	require.Equal(t, []string{"play:false"}, o2.events)
}

func TestHub_UnsubscribeNonMemberIsNoOp(t *testing.T) {
	hub := NewHub()
	o := &recordingObserver{name: "o"}

	require.NotPanics(t, func() { hub.Unsubscribe(o) })
	assert.Equal(t, 0, hub.ObserverCount())
}

func TestHub_DuplicateSubscriptionNotifiesTwice(t *testing.T) {
	hub := NewHub()
	o := &recordingObserver{name: "o"}
	hub.Subscribe(o)
	hub.Subscribe(o)

	hub.NotifyTimeUpdate(1)

	require.Equal(t, []string{"time:1.00", "time:1.00"}, o.events)

	// Unsubscribe removes every occurrence, not just the first.
	hub.Unsubscribe(o)
	hub.NotifyTimeUpdate(2)
	require.Len(t, o.events, 2)
	assert.Equal(t, 0, hub.ObserverCount())
}

func TestHub_UnsubscribeDuringNotificationDoesNotAffectPass(t *testing.T) {
	hub := NewHub()
	late := &recordingObserver{name: "late"}
	self := &unsubscribingObserver{recordingObserver: recordingObserver{name: "self"}, hub: hub}
	self.target = self
	hub.Subscribe(self)
	hub.Subscribe(late)

	require.NotPanics(t, func() { hub.NotifyPlayStateChange(true) })

	// Both observers saw the in-flight notification.
	assert.Equal(t, []string{"play:true"}, self.recordingObserver.events)
	assert.Equal(t, []string{"play:true"}, late.events)

	// The self-unsubscribe took effect for subsequent passes.
	hub.NotifyPlayStateChange(false)
	assert.Equal(t, []string{"play:true"}, self.recordingObserver.events)
	assert.Equal(t, []string{"play:true", "play:false"}, late.events)
}

func TestHub_UnsubscribePeerDuringNotificationStillDeliversToPeer(t *testing.T) {
	hub := NewHub()
	victim := &recordingObserver{name: "victim"}
	remover := &unsubscribingObserver{recordingObserver: recordingObserver{name: "remover"}, hub: hub, target: victim}
	hub.Subscribe(remover)
	hub.Subscribe(victim)

	hub.NotifyPlayStateChange(true)

	// victim was subscribed when the pass began, so it still gets this event.
	assert.Equal(t, []string{"play:true"}, victim.events)

	hub.NotifyPlayStateChange(false)
	assert.Equal(t, []string{"play:true"}, victim.events, "removed observer must not see later events")
}

// TestProperty_ExactlyOnceInOrder drives the hub with arbitrary interleavings
// of subscribe, unsubscribe, and notify calls, and checks that every
// currently-subscribed observer sees every notification exactly once, in
// subscription order, and that removed observers see nothing further.
func TestProperty_ExactlyOnceInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hub := NewHub()

		const poolSize = 5
		var order []string
		pool := make([]*orderObserver, poolSize)
		for i := range pool {
			pool[i] = &orderObserver{name: fmt.Sprintf("o%d", i), order: &order}
		}

		// Model: the expected subscription list, maintained in parallel.
		var expected []*orderObserver

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			switch rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("op-%d", s)) {
			case 0: // subscribe
				o := pool[rapid.IntRange(0, poolSize-1).Draw(t, fmt.Sprintf("sub-%d", s))]
				hub.Subscribe(o)
				expected = append(expected, o)

			case 1: // unsubscribe (removes all occurrences)
				o := pool[rapid.IntRange(0, poolSize-1).Draw(t, fmt.Sprintf("unsub-%d", s))]
				hub.Unsubscribe(o)
				kept := expected[:0]
				for _, e := range expected {
					if e != o {
						kept = append(kept, e)
					}
				}
				expected = kept

			case 2: // notify time
				order = order[:0]
				hub.NotifyTimeUpdate(float64(s))
				requireDeliveryOrder(t, expected, order)

			case 3: // notify play state
				order = order[:0]
				hub.NotifyPlayStateChange(s%2 == 0)
				requireDeliveryOrder(t, expected, order)
			}
		}
	})
}

func requireDeliveryOrder(t *rapid.T, expected []*orderObserver, got []string) {
	t.Helper()
	want := make([]string, len(expected))
	for i, o := range expected {
		want[i] = o.name
	}
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if fmt.Sprint(want) != fmt.Sprint(got) {
		t.Fatalf("delivery order mismatch: want %v, got %v", want, got)
	}
}
