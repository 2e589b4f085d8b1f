package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
)

// TickerSource is a silent Source driven by the wall clock. Scenes without
// a narration file use it so the animation and captions still follow a
// timeline; tests use it to exercise the adapter without spawning an audio
// process.
type TickerSource struct {
	duration time.Duration
	interval time.Duration

	mu          sync.Mutex
	handler     EventHandler
	playing     bool
	ended       bool
	accumulated time.Duration // playing time before lastResume
	lastResume  time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

var _ Source = (*TickerSource)(nil)

// NewTickerSource creates a silent source of the given length. interval is
// the progress event cadence; values <= 0 default to 250ms.
func NewTickerSource(duration, interval time.Duration) *TickerSource {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &TickerSource{duration: duration, interval: interval}
}

// Start begins the clock and emits SourceStarted.
func (s *TickerSource) Start(handler EventHandler) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return fmt.Errorf("ticker source already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.handler = handler
	s.playing = true
	s.lastResume = time.Now()
	s.mu.Unlock()

	handler(SourceEvent{Kind: SourceStarted, Position: 0})

	log.SafeGo("tickersource.loop", func() {
		defer close(s.done)
		s.loop(ctx)
	})
	return nil
}

func (s *TickerSource) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *TickerSource) tick() {
	s.mu.Lock()
	if !s.playing || s.ended {
		s.mu.Unlock()
		return
	}
	pos := s.positionLocked()
	handler := s.handler
	ended := pos >= s.duration
	if ended {
		pos = s.duration
		s.accumulated = s.duration
		s.playing = false
		s.ended = true
	}
	s.mu.Unlock()

	if handler == nil {
		return
	}
	if ended {
		handler(SourceEvent{Kind: SourceEnded, Position: pos})
		return
	}
	handler(SourceEvent{Kind: SourceProgress, Position: pos})
}

// Pause suspends the clock.
func (s *TickerSource) Pause() error {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return nil
	}
	s.accumulated = s.positionLocked()
	s.playing = false
	handler := s.handler
	pos := s.accumulated
	s.mu.Unlock()

	if handler != nil {
		handler(SourceEvent{Kind: SourcePaused, Position: pos})
	}
	return nil
}

// Resume continues a paused clock, or restarts an ended one from zero.
func (s *TickerSource) Resume() error {
	s.mu.Lock()
	if s.handler == nil {
		s.mu.Unlock()
		return fmt.Errorf("ticker source not started")
	}
	if s.playing {
		s.mu.Unlock()
		return nil
	}
	if s.ended {
		s.accumulated = 0
		s.ended = false
	}
	s.playing = true
	s.lastResume = time.Now()
	handler := s.handler
	pos := s.accumulated
	s.mu.Unlock()

	handler(SourceEvent{Kind: SourceStarted, Position: pos})
	return nil
}

// Position returns elapsed playing time, clamped to the track length.
func (s *TickerSource) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

// positionLocked computes the position. Callers must hold mu.
func (s *TickerSource) positionLocked() time.Duration {
	pos := s.accumulated
	if s.playing {
		pos += time.Since(s.lastResume)
	}
	if pos > s.duration {
		pos = s.duration
	}
	return pos
}

// Duration returns the configured track length.
func (s *TickerSource) Duration() time.Duration {
	return s.duration
}

// Close stops the clock and drops the handler. Safe to call repeatedly.
func (s *TickerSource) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.handler = nil
	s.playing = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}
