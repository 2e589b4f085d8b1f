package animation

import (
	"github.com/deadchur/ITC303-platARpus-v1/internal/avsync"
)

// Driver is the avsync.Observer that keeps the mixer's time-scale in step
// with narration playback: 1.0 while audio plays, 0.0 while it is paused,
// stopped, or ended.
type Driver struct {
	mixer *Mixer
}

// NewDriver creates a driver for the given mixer.
func NewDriver(mixer *Mixer) *Driver {
	return &Driver{mixer: mixer}
}

var _ avsync.Observer = (*Driver)(nil)

// OnPlayStateChange maps the play state directly onto the mixer time-scale.
func (d *Driver) OnPlayStateChange(playing bool) {
	if playing {
		d.mixer.SetTimeScale(1.0)
	} else {
		d.mixer.SetTimeScale(0.0)
	}
}

// OnTimeUpdate is a no-op. The slot is reserved for seeking individual
// clips against the narration timeline once scenes carry per-clip cue
// points; today a single looping clip needs no positional sync.
func (d *Driver) OnTimeUpdate(float64) {}
