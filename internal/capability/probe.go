// Package capability answers whether the current terminal can show an
// animated exhibit. The query runs asynchronously so the viewer can come up
// immediately and degrade to a static poster if the terminal falls short.
package capability

import (
	"os"
	"sync/atomic"

	"github.com/muesli/termenv"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
)

// Report is the outcome of a capability query.
type Report struct {
	// Supported is false when the terminal cannot render animated scenes.
	Supported bool
	// Profile is the detected color profile.
	Profile termenv.Profile
	// DarkBackground reports whether the terminal background is dark.
	DarkBackground bool
	// Term is the TERM value the decision was based on.
	Term string
	// Reason explains an unsupported verdict.
	Reason string
}

// ProfileName returns a human-readable color profile name for the doctor
// command and the viewer's status line.
func (r Report) ProfileName() string {
	switch r.Profile {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "256 colors"
	case termenv.ANSI:
		return "16 colors"
	default:
		return "monochrome"
	}
}

// Probe inspects the terminal environment.
type Probe struct {
	env    termenv.Environ
	out    *termenv.Output
	darkFn func() bool
}

// Option configures a Probe.
type Option func(*Probe)

// WithEnviron overrides the environment the probe inspects.
func WithEnviron(env termenv.Environ) Option {
	return func(p *Probe) { p.env = env }
}

// WithDarkBackground overrides background detection, which normally talks
// to the terminal and cannot run under tests.
func WithDarkBackground(fn func() bool) Option {
	return func(p *Probe) { p.darkFn = fn }
}

// WithOutput overrides the termenv output the probe reads color support
// from. Without it the probe binds to stdout, which termenv treats as
// colorless whenever it is not a TTY.
func WithOutput(out *termenv.Output) Option {
	return func(p *Probe) { p.out = out }
}

// NewProbe returns a Probe over the process environment and stdout.
func NewProbe(opts ...Option) *Probe {
	p := &Probe{}
	for _, opt := range opts {
		opt(p)
	}
	if p.env == nil {
		p.env = &osEnviron{}
	}
	if p.out == nil {
		p.out = termenv.NewOutput(os.Stdout, termenv.WithEnvironment(p.env))
	}
	if p.darkFn == nil {
		p.darkFn = p.out.HasDarkBackground
	}
	return p
}

// Query inspects the terminal synchronously.
func (p *Probe) Query() Report {
	term := p.env.Getenv("TERM")
	report := Report{Term: term}

	switch term {
	case "":
		report.Reason = "TERM is not set"
		return report
	case "dumb":
		report.Reason = "dumb terminal"
		return report
	}

	report.Profile = p.out.EnvColorProfile()
	if report.Profile == termenv.Ascii {
		report.Reason = "terminal reports no color support"
		return report
	}

	report.Supported = true
	report.DarkBackground = p.darkFn()
	log.Debug(log.CatCapability, "terminal probed",
		"term", term, "profile", report.ProfileName(), "dark", report.DarkBackground)
	return report
}

// Task is a handle on an in-flight async query.
type Task struct {
	cancelled atomic.Bool
	done      chan struct{}
}

// Cancel drops the pending callback. Safe after completion.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// Done is closed once the query goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// QueryAsync runs Query on a background goroutine and hands the report to
// cb unless the task is cancelled first.
func (p *Probe) QueryAsync(cb func(Report)) *Task {
	task := &Task{done: make(chan struct{})}
	log.SafeGo("capability.query", func() {
		defer close(task.done)
		report := p.Query()
		if task.cancelled.Load() {
			return
		}
		cb(report)
	})
	return task
}

// osEnviron adapts the process environment to termenv.Environ.
type osEnviron struct{}

func (osEnviron) Environ() []string        { return os.Environ() }
func (osEnviron) Getenv(key string) string { return os.Getenv(key) }
