package capability

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEnviron is a fixed environment for probes under test.
type mapEnviron map[string]string

func (m mapEnviron) Environ() []string {
	var out []string
	for k, v := range m {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

func (m mapEnviron) Getenv(key string) string { return m[key] }

// ttyOutput forces termenv to treat the sink as a terminal; probes bound
// to a non-TTY report Ascii no matter what the environment claims.
func ttyOutput(env termenv.Environ) *termenv.Output {
	return termenv.NewOutput(io.Discard, termenv.WithEnvironment(env), termenv.WithTTY(true))
}

func newTestProbe(env mapEnviron) *Probe {
	return NewProbe(
		WithEnviron(env),
		WithOutput(ttyOutput(env)),
		WithDarkBackground(func() bool { return true }),
	)
}

func TestProbe_Query(t *testing.T) {
	tests := []struct {
		name          string
		env           mapEnviron
		wantSupported bool
		wantReason    string
	}{
		{
			name:          "no TERM",
			env:           mapEnviron{},
			wantSupported: false,
			wantReason:    "TERM is not set",
		},
		{
			name:          "dumb terminal",
			env:           mapEnviron{"TERM": "dumb"},
			wantSupported: false,
			wantReason:    "dumb terminal",
		},
		{
			name:          "256 color terminal",
			env:           mapEnviron{"TERM": "xterm-256color"},
			wantSupported: true,
		},
		{
			name:          "truecolor terminal",
			env:           mapEnviron{"TERM": "xterm-256color", "COLORTERM": "truecolor"},
			wantSupported: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := newTestProbe(tt.env).Query()
			assert.Equal(t, tt.wantSupported, report.Supported)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, report.Reason)
			}
			if tt.wantSupported {
				assert.Empty(t, report.Reason)
				assert.True(t, report.DarkBackground)
			}
		})
	}
}

func TestProbe_TruecolorProfile(t *testing.T) {
	report := newTestProbe(mapEnviron{"TERM": "xterm-256color", "COLORTERM": "truecolor"}).Query()
	assert.Equal(t, termenv.TrueColor, report.Profile)
	assert.Equal(t, "truecolor", report.ProfileName())
}

func TestProbe_InjectedOutputDrivesColorDetection(t *testing.T) {
	env := mapEnviron{"TERM": "xterm-256color"}

	supported := NewProbe(
		WithEnviron(env),
		WithOutput(ttyOutput(env)),
		WithDarkBackground(func() bool { return true }),
	).Query()
	require.True(t, supported.Supported)
	assert.Equal(t, termenv.ANSI256, supported.Profile)

	// A non-TTY sink degrades to monochrome regardless of TERM.
	pipe := NewProbe(
		WithEnviron(env),
		WithOutput(termenv.NewOutput(io.Discard, termenv.WithEnvironment(env))),
		WithDarkBackground(func() bool { return true }),
	).Query()
	require.False(t, pipe.Supported)
	assert.Equal(t, "terminal reports no color support", pipe.Reason)
}

func TestReport_ProfileName(t *testing.T) {
	assert.Equal(t, "monochrome", Report{Profile: termenv.Ascii}.ProfileName())
	assert.Equal(t, "16 colors", Report{Profile: termenv.ANSI}.ProfileName())
	assert.Equal(t, "256 colors", Report{Profile: termenv.ANSI256}.ProfileName())
}

func TestProbe_QueryAsyncDeliversReport(t *testing.T) {
	probe := newTestProbe(mapEnviron{"TERM": "xterm-256color"})

	got := make(chan Report, 1)
	task := probe.QueryAsync(func(r Report) { got <- r })

	select {
	case report := <-got:
		assert.True(t, report.Supported)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
	<-task.Done()
}

func TestProbe_QueryAsyncCancelDropsCallback(t *testing.T) {
	// Background detection blocks until the test has cancelled, so the
	// cancellation always lands before the callback would fire.
	release := make(chan struct{})
	env := mapEnviron{"TERM": "xterm-256color"}
	probe := NewProbe(
		WithEnviron(env),
		WithOutput(ttyOutput(env)),
		WithDarkBackground(func() bool { <-release; return true }),
	)

	fired := false
	task := probe.QueryAsync(func(Report) { fired = true })
	task.Cancel()
	close(release)

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("query did not finish")
	}
	require.False(t, fired, "cancelled query must not call back")
}
