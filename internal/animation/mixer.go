// Package animation plays model clips frame by frame. The Mixer owns clip
// selection and a time-scale multiplier; the Driver maps audio play-state
// onto that multiplier so the animation freezes exactly when narration
// pauses.
package animation

import (
	"fmt"
	"sync"

	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
)

// Mixer advances an active clip through time. Update is driven by the
// render loop; the effective animation speed is dt * TimeScale, so a
// time-scale of zero freezes the current frame without losing position.
type Mixer struct {
	mu        sync.Mutex
	model     *scene.Model
	frameRate int

	active    *scene.Clip
	clipTime  float64 // seconds into the active clip
	timeScale float64
}

// NewMixer creates a mixer over the model. frameRate is the frame advance
// rate in frames per second; values <= 0 fall back to the scene default.
// The mixer starts with no active clip and a time-scale of zero.
func NewMixer(model *scene.Model, frameRate int) *Mixer {
	if frameRate <= 0 {
		frameRate = scene.DefaultFrameRate
	}
	return &Mixer{model: model, frameRate: frameRate}
}

// Play activates the named clip from the beginning. The time-scale is left
// untouched; pausing and clip selection are independent.
func (m *Mixer) Play(clipName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.model.Clips {
		if m.model.Clips[i].Name == clipName {
			m.active = &m.model.Clips[i]
			m.clipTime = 0
			return nil
		}
	}
	return fmt.Errorf("model %s has no clip %q", m.model.Name, clipName)
}

// SetTimeScale sets the playback-rate multiplier (0 = frozen, 1 = normal).
func (m *Mixer) SetTimeScale(scale float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeScale = scale
}

// TimeScale returns the current playback-rate multiplier.
func (m *Mixer) TimeScale() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeScale
}

// Update advances the active clip by dt (seconds) scaled by the time-scale.
func (m *Mixer) Update(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || dt <= 0 {
		return
	}
	m.clipTime += dt * m.timeScale
}

// CurrentFrame returns the frame the active clip is showing. ok is false
// when no clip is active or the model has no clips.
func (m *Mixer) CurrentFrame() (scene.Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || len(m.active.Frames) == 0 {
		return scene.Frame{}, false
	}

	idx := int(m.clipTime * float64(m.frameRate))
	if m.active.Loop {
		idx %= len(m.active.Frames)
	} else if idx >= len(m.active.Frames) {
		// Non-looping clips hold their last frame.
		idx = len(m.active.Frames) - 1
	}
	return m.active.Frames[idx], true
}

// ActiveClip returns the name of the active clip, or "" if none.
func (m *Mixer) ActiveClip() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return ""
	}
	return m.active.Name
}
