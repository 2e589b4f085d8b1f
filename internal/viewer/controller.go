// Package viewer runs one exhibit: it owns the sync hub, the animation
// mixer, the narration playback adapter, and the async capability and
// asset-load tasks, under a single initialize/teardown lifecycle.
package viewer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/deadchur/ITC303-platARpus-v1/internal/animation"
	"github.com/deadchur/ITC303-platARpus-v1/internal/asset"
	"github.com/deadchur/ITC303-platARpus-v1/internal/avsync"
	"github.com/deadchur/ITC303-platARpus-v1/internal/capability"
	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/playback"
	"github.com/deadchur/ITC303-platARpus-v1/internal/pubsub"
	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
	"github.com/deadchur/ITC303-platARpus-v1/internal/telemetry"
)

// ControllerConfig wires a Controller's collaborators.
type ControllerConfig struct {
	// Scene is the exhibit to show. Required.
	Scene *scene.Scene

	// Model short-circuits the asset load with an already-decoded bundle
	// (the embedded demo scene). When nil the model is loaded from
	// Scene.ModelPath() via Loader.
	Model *scene.Model

	// Source plays the narration. Required.
	Source playback.Source

	// Probe answers the terminal capability query. Required.
	Probe *capability.Probe

	// Loader fetches the model bundle. Required unless Model is set.
	Loader *asset.Loader

	// Broker, when non-nil, receives playback event envelopes.
	Broker *pubsub.Broker[playback.Event]

	// OnChange, when non-nil, runs after every async state change
	// (capability result, load progress, load outcome). The TUI uses it
	// to schedule a redraw. Called from background goroutines.
	OnChange func()
}

// Controller holds every live resource of one exhibit viewing. All mutable
// state is behind one mutex; async callbacks funnel through it.
type Controller struct {
	cfg ControllerConfig

	hub     *avsync.Hub
	adapter *playback.Adapter

	mu           sync.Mutex
	mixer        *animation.Mixer
	driver       *animation.Driver
	report       capability.Report
	probed       bool
	loaded       bool
	loadFraction float64
	errMsg       string

	capTask  *capability.Task
	loadTask *asset.Task
	loadSpan trace.Span

	torndown atomic.Bool
}

// NewController validates cfg and builds an idle controller. Call
// Initialize to start the async work.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Scene == nil {
		return nil, errMissing("scene")
	}
	if cfg.Source == nil {
		return nil, errMissing("source")
	}
	if cfg.Probe == nil {
		return nil, errMissing("probe")
	}
	if cfg.Model == nil && cfg.Loader == nil {
		return nil, errMissing("loader")
	}
	return &Controller{cfg: cfg, hub: avsync.NewHub()}, nil
}

func errMissing(what string) error {
	return fmt.Errorf("viewer controller requires a %s", what)
}

// Hub exposes the sync hub so additional observers (caption tracker,
// tests) can subscribe.
func (c *Controller) Hub() *avsync.Hub {
	return c.hub
}

// Scene returns the exhibit being shown.
func (c *Controller) Scene() *scene.Scene {
	return c.cfg.Scene
}

// Initialize starts the capability query, the model load, and the
// narration adapter. Each subsystem fails independently: a load failure
// does not stop audio, and vice versa.
func (c *Controller) Initialize(ctx context.Context) error {
	adapter, err := playback.NewAdapter(playback.AdapterConfig{
		Hub:     c.hub,
		Source:  c.cfg.Source,
		Broker:  c.cfg.Broker,
		SceneID: c.cfg.Scene.ID,
	})
	if err != nil {
		return err
	}
	c.adapter = adapter

	c.capTask = c.cfg.Probe.QueryAsync(func(report capability.Report) {
		c.mu.Lock()
		c.report = report
		c.probed = true
		c.mu.Unlock()
		c.changed()
	})

	if c.cfg.Model != nil {
		c.attachModel(c.cfg.Model)
		c.changed()
		return nil
	}

	loadCtx, span := telemetry.Tracer().Start(ctx, "scene.load",
		trace.WithAttributes(attribute.String("scene.id", c.cfg.Scene.ID)))
	c.loadSpan = span

	c.loadTask = c.cfg.Loader.Load(loadCtx, c.cfg.Scene.ModelPath(), c.cfg.Scene.Model, asset.Callbacks{
		OnProgress: func(p asset.Progress) {
			c.mu.Lock()
			c.loadFraction = p.Fraction
			c.mu.Unlock()
			c.changed()
		},
		OnDone: func(m *scene.Model) {
			span.End()
			c.attachModel(m)
			c.changed()
		},
		OnError: func(err error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "model load failed")
			span.End()
			c.mu.Lock()
			c.errMsg = "could not load model: " + err.Error()
			c.mu.Unlock()
			c.changed()
		},
	})
	return nil
}

// attachModel builds the mixer and driver for a decoded bundle and puts
// the driver on the hub.
func (c *Controller) attachModel(m *scene.Model) {
	mixer := animation.NewMixer(m, c.cfg.Scene.FrameRate)
	if clip := defaultClip(m); clip != "" {
		_ = mixer.Play(clip) // defaultClip only names clips the bundle has
	}
	driver := animation.NewDriver(mixer)

	c.mu.Lock()
	c.mixer = mixer
	c.driver = driver
	c.loaded = true
	c.loadFraction = 1.0
	c.mu.Unlock()

	c.hub.Subscribe(driver)
}

// defaultClip picks the clip to start with: "swim" if the bundle has one,
// otherwise the first clip in file order.
func defaultClip(m *scene.Model) string {
	if _, ok := m.Clip("swim"); ok {
		return "swim"
	}
	if len(m.Clips) > 0 {
		return m.Clips[0].Name
	}
	return ""
}

func (c *Controller) changed() {
	if c.torndown.Load() {
		return
	}
	if c.cfg.OnChange != nil {
		c.cfg.OnChange()
	}
}

// Play starts or resumes narration. A playback rejection is logged and
// surfaced, never fatal: the animation simply stays frozen.
func (c *Controller) Play() {
	var err error
	if c.adapter.State() == playback.StateIdle {
		err = c.adapter.Start()
	} else {
		err = c.adapter.Play()
	}
	if err != nil {
		log.ErrorErr(log.CatViewer, "narration did not start", err, "scene", c.cfg.Scene.ID)
		c.mu.Lock()
		c.errMsg = "narration did not start: " + err.Error()
		c.mu.Unlock()
		c.changed()
	}
}

// Pause pauses narration.
func (c *Controller) Pause() {
	if err := c.adapter.Pause(); err != nil {
		log.Warn(log.CatViewer, "pause failed", "error", err)
	}
}

// TogglePlay plays when paused or idle, pauses when playing.
func (c *Controller) TogglePlay() {
	if c.adapter.State() == playback.StatePlaying {
		c.Pause()
		return
	}
	c.Play()
}

// State returns the narration playback state.
func (c *Controller) State() playback.State {
	return c.adapter.State()
}

// Position returns the narration position.
func (c *Controller) Position() time.Duration {
	return c.cfg.Source.Position()
}

// Duration returns the narration length, 0 when unknown.
func (c *Controller) Duration() time.Duration {
	return c.cfg.Source.Duration()
}

// Advance moves the animation clock by dt. The TUI calls this once per
// frame tick; while narration is paused the mixer's time scale is 0 and
// the frame freezes.
func (c *Controller) Advance(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mixer != nil {
		c.mixer.Update(dt.Seconds())
	}
}

// Frame returns the current animation frame, or false before the model
// has loaded.
func (c *Controller) Frame() (scene.Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mixer == nil {
		return scene.Frame{}, false
	}
	return c.mixer.CurrentFrame()
}

// Supported reports the capability verdict. ok is false until the probe
// has answered.
func (c *Controller) Supported() (report capability.Report, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, c.probed
}

// Loaded reports whether the model bundle is decoded and animating.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// LoadProgress returns the model load fraction, 0.0 to 1.0.
func (c *Controller) LoadProgress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadFraction
}

// Err returns the free-text error message for whichever subsystem failed
// most recently, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Teardown cancels the in-flight async tasks and releases the narration
// resource. Late task callbacks are dropped rather than mutating a
// torn-down controller. Idempotent.
func (c *Controller) Teardown() {
	if !c.torndown.CompareAndSwap(false, true) {
		return
	}

	if c.capTask != nil {
		c.capTask.Cancel()
	}
	if c.loadTask != nil {
		c.loadTask.Cancel()
		if c.loadSpan != nil {
			c.loadSpan.End()
		}
	}
	if c.adapter != nil {
		if err := c.adapter.Close(); err != nil {
			log.Warn(log.CatViewer, "adapter close failed", "error", err)
		}
	}

	c.mu.Lock()
	driver := c.driver
	c.mu.Unlock()
	if driver != nil {
		c.hub.Unsubscribe(driver)
	}
	log.Info(log.CatViewer, "viewer torn down", "scene", c.cfg.Scene.ID)
}
