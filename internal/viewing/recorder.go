// Package viewing persists playback history so a scene can be resumed
// where the visitor left off.
package viewing

import (
	"context"
	"fmt"
	"time"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/playback"
	"github.com/deadchur/ITC303-platARpus-v1/internal/pubsub"
	"github.com/deadchur/ITC303-platARpus-v1/internal/viewing/domain"
)

// DefaultSaveInterval throttles progress writes; transport changes and
// completion are always written immediately.
const DefaultSaveInterval = time.Second

// Recorder consumes playback event envelopes off the broker and writes
// viewing rows. It is the only writer of viewing history; the playback
// layer itself stays persistence-free.
type Recorder struct {
	repo         domain.ViewingRepository
	broker       *pubsub.Broker[playback.Event]
	saveInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	// Loop-owned state, no locking needed.
	viewings  map[string]*domain.Viewing
	lastSaved map[string]time.Time
}

// NewRecorder builds a Recorder over repo and broker. saveInterval <= 0
// uses DefaultSaveInterval.
func NewRecorder(repo domain.ViewingRepository, broker *pubsub.Broker[playback.Event], saveInterval time.Duration) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("recorder requires a repository")
	}
	if broker == nil {
		return nil, fmt.Errorf("recorder requires a broker")
	}
	if saveInterval <= 0 {
		saveInterval = DefaultSaveInterval
	}
	return &Recorder{
		repo:         repo,
		broker:       broker,
		saveInterval: saveInterval,
		viewings:     make(map[string]*domain.Viewing),
		lastSaved:    make(map[string]time.Time),
	}, nil
}

// Start begins consuming events until ctx is cancelled or Stop is called.
func (r *Recorder) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	listener := pubsub.NewContinuousListener(ctx, r.broker)

	log.SafeGo("viewing.record", func() {
		defer close(r.done)
		for {
			event, ok := listener.Next()
			if !ok {
				return
			}
			r.observe(event.Payload)
		}
	})
}

func (r *Recorder) observe(event playback.Event) {
	if event.SessionID == "" || event.Type.IsWatchdogEvent() {
		return
	}

	v, ok := r.viewings[event.SessionID]
	if !ok {
		v = domain.NewViewing(event.SceneID)
		r.viewings[event.SessionID] = v
	}

	switch event.Type {
	case playback.EventProgress:
		v.RecordPosition(event.Position)
		r.save(event.SessionID, v, false)
	case playback.EventPaused:
		v.RecordPosition(event.Position)
		r.save(event.SessionID, v, true)
	case playback.EventEnded:
		v.MarkCompleted()
		r.save(event.SessionID, v, true)
	case playback.EventStarted, playback.EventResumed:
		r.save(event.SessionID, v, true)
	}
}

// save writes the viewing, throttled for routine progress updates.
func (r *Recorder) save(sessionID string, v *domain.Viewing, force bool) {
	if !force && time.Since(r.lastSaved[sessionID]) < r.saveInterval {
		return
	}
	if err := r.repo.Save(v); err != nil {
		log.ErrorErr(log.CatDB, "saving viewing failed", err, "scene", v.SceneID())
		return
	}
	r.lastSaved[sessionID] = time.Now()
}

// Stop ends consumption and waits for the loop to exit. Safe when Start
// never ran.
func (r *Recorder) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
