package playback

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
)

// playerCandidates are the OS audio commands tried in order when no player
// is configured. Each plays a file path argument and exits when done.
var playerCandidates = []PlayerCommand{
	{Binary: "afplay"},
	{Binary: "paplay"},
	{Binary: "aplay", Args: []string{"-q"}},
	{Binary: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{Binary: "mpv", Args: []string{"--no-video", "--really-quiet"}},
}

// PlayerCommand is an external audio player invocation; the narration file
// path is appended to Args.
type PlayerCommand struct {
	Binary string
	Args   []string
}

// DetectPlayer resolves the audio player to use. A non-empty preferred
// binary wins if present on PATH; otherwise the known candidates are tried
// in order.
func DetectPlayer(preferred string) (PlayerCommand, error) {
	if preferred != "" {
		if _, err := exec.LookPath(preferred); err != nil {
			return PlayerCommand{}, fmt.Errorf("configured audio player %q not found: %w", preferred, err)
		}
		return PlayerCommand{Binary: preferred}, nil
	}
	for _, candidate := range playerCandidates {
		if _, err := exec.LookPath(candidate.Binary); err == nil {
			return candidate, nil
		}
	}
	return PlayerCommand{}, fmt.Errorf("no audio player found on PATH (tried afplay, paplay, aplay, ffplay, mpv)")
}

// ExecSource plays a narration file through an external audio command.
// Pause and resume use SIGSTOP/SIGCONT on the player process; position is
// tracked with a monotonic clock because the players offer no position
// query. The track length is unknown (Duration returns 0); the end of the
// track is observed as the process exiting cleanly.
type ExecSource struct {
	path     string
	player   PlayerCommand
	interval time.Duration

	mu          sync.Mutex
	cmd         *exec.Cmd
	handler     EventHandler
	playing     bool
	ended       bool
	closed      bool
	accumulated time.Duration
	lastResume  time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

var _ Source = (*ExecSource)(nil)

// NewExecSource creates a source that plays path with the given player.
// interval is the progress event cadence; values <= 0 default to 250ms.
func NewExecSource(path string, player PlayerCommand, interval time.Duration) *ExecSource {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &ExecSource{path: path, player: player, interval: interval}
}

// Start spawns the player process and begins emitting events.
func (s *ExecSource) Start(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("exec source already started")
	}
	s.handler = handler

	if err := s.spawnLocked(); err != nil {
		s.handler = nil
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	log.SafeGo("execsource.progressLoop", func() {
		defer close(s.done)
		s.progressLoop(ctx)
	})

	handler(SourceEvent{Kind: SourceStarted, Position: 0})
	return nil
}

// spawnLocked starts a fresh player process and its exit watcher. Callers
// must hold mu and have a handler set.
func (s *ExecSource) spawnLocked() error {
	args := append(append([]string{}, s.player.Args...), s.path)
	cmd := exec.Command(s.player.Binary, args...) //nolint:gosec // G204: binary comes from config or a fixed candidate list

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting audio player %s: %w", s.player.Binary, err)
	}
	s.cmd = cmd
	s.playing = true
	s.ended = false
	s.accumulated = 0
	s.lastResume = time.Now()

	log.Debug(log.CatPlayback, "Audio player started", "player", s.player.Binary, "path", s.path, "pid", cmd.Process.Pid)

	log.SafeGo("execsource.wait", func() {
		err := cmd.Wait()
		s.onProcessExit(cmd, err)
	})
	return nil
}

// onProcessExit translates process termination into Ended or Failed.
func (s *ExecSource) onProcessExit(cmd *exec.Cmd, err error) {
	s.mu.Lock()
	if s.closed || s.cmd != cmd {
		// Torn down, or superseded by a restart.
		s.mu.Unlock()
		return
	}
	s.accumulated = s.positionLocked()
	s.playing = false
	s.ended = true
	handler := s.handler
	pos := s.accumulated
	s.mu.Unlock()

	if handler == nil {
		return
	}
	if err != nil {
		log.Warn(log.CatPlayback, "Audio player exited with error", "player", s.player.Binary, "error", err)
		handler(SourceEvent{Kind: SourceFailed, Position: pos, Err: err})
		return
	}
	handler(SourceEvent{Kind: SourceEnded, Position: pos})
}

func (s *ExecSource) progressLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.playing {
				s.mu.Unlock()
				continue
			}
			handler := s.handler
			pos := s.positionLocked()
			s.mu.Unlock()
			if handler != nil {
				handler(SourceEvent{Kind: SourceProgress, Position: pos})
			}
		}
	}
}

// Pause suspends the player process with SIGSTOP.
func (s *ExecSource) Pause() error {
	s.mu.Lock()
	if !s.playing || s.cmd == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("pausing audio player: %w", err)
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

// Resume continues a paused process with SIGCONT, or starts a fresh process
// when the previous one has ended.
func (s *ExecSource) Resume() error {
	s.mu.Lock()
	if s.closed || s.handler == nil {
		s.mu.Unlock()
		return fmt.Errorf("exec source not started")
	}
	if s.playing {
		s.mu.Unlock()
		return nil
	}

	if s.ended {
		// New play command after natural completion: fresh process.
		if err := s.spawnLocked(); err != nil {
			s.mu.Unlock()
			return err
		}
		handler := s.handler
		s.mu.Unlock()
		handler(SourceEvent{Kind: SourceStarted, Position: 0})
		return nil
	}

	if err := s.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("resuming audio player: %w", err)
	}
	s.playing = true
	s.lastResume = time.Now()
	handler := s.handler
	pos := s.accumulated
	s.mu.Unlock()

	handler(SourceEvent{Kind: SourceStarted, Position: pos})
	return nil
}

// Position returns the elapsed playing time.
func (s *ExecSource) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

// positionLocked computes the position. Callers must hold mu.
func (s *ExecSource) positionLocked() time.Duration {
	pos := s.accumulated
	if s.playing {
		pos += time.Since(s.lastResume)
	}
	return pos
}

// Duration is unknown for external players.
func (s *ExecSource) Duration() time.Duration {
	return 0
}

// Close kills the player process and stops event delivery.
func (s *ExecSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.handler = nil
	s.playing = false
	cmd := s.cmd
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	return nil
}
