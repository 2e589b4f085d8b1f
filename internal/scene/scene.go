// Package scene defines the exhibit scene domain: a scene manifest pairs an
// animated model with an optional narration track and presentation settings.
package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default presentation settings applied when a manifest omits them. Earlier
// revisions of the exhibit shipped two copies of the viewer with slightly
// different constants; those are unified here as configuration.
const (
	DefaultFrameRate      = 8
	DefaultScale          = 1.0
	DefaultCameraDistance = 4.0
)

// Scene describes one narrated exhibit: which model to animate, which audio
// file narrates it, and how to present it.
type Scene struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"` // markdown, shown in scene details

	// Model is the path to the model bundle, relative to the manifest.
	Model string `yaml:"model"`

	// Narration is the path to the narration audio file, relative to the
	// manifest. Empty means a silent scene; playback is driven by a clock
	// over NarrationDuration instead of an audio process.
	Narration         string   `yaml:"narration"`
	NarrationDuration Duration `yaml:"narration_duration"`

	// Captions pair a playback time with a line of narration text.
	Captions []Caption `yaml:"captions"`

	FrameRate      int     `yaml:"frame_rate"`
	Scale          float64 `yaml:"scale"`
	CameraDistance float64 `yaml:"camera_distance"`

	// Dir is the directory the manifest was loaded from. Not serialized;
	// used to resolve the model and narration paths.
	Dir string `yaml:"-"`
}

// Caption is a timed narration line displayed under the animation.
type Caption struct {
	At   Duration `yaml:"at"`
	Text string   `yaml:"text"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "24s"
// (or bare integers, read as seconds).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var secs int
	if err := value.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("malformed duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// ParseManifest decodes a scene manifest and applies defaults.
func ParseManifest(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scene manifest: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadManifest reads a scene manifest from disk and records its directory.
func LoadManifest(path string) (*Scene, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the configured scenes directory
	if err != nil {
		return nil, fmt.Errorf("opening scene manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

func (s *Scene) applyDefaults() {
	if s.FrameRate <= 0 {
		s.FrameRate = DefaultFrameRate
	}
	if s.Scale <= 0 {
		s.Scale = DefaultScale
	}
	if s.CameraDistance <= 0 {
		s.CameraDistance = DefaultCameraDistance
	}
}

// Validate checks manifest fields that have no sensible default.
func (s *Scene) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scene manifest: id is required")
	}
	if s.Model == "" {
		return fmt.Errorf("scene %s: model is required", s.ID)
	}
	if s.Narration == "" && s.NarrationDuration <= 0 {
		return fmt.Errorf("scene %s: narration or narration_duration is required", s.ID)
	}
	return nil
}

// ModelPath resolves the model bundle path against the manifest directory.
func (s *Scene) ModelPath() string {
	return filepath.Join(s.Dir, s.Model)
}

// NarrationPath resolves the narration audio path against the manifest
// directory. Returns "" for silent scenes.
func (s *Scene) NarrationPath() string {
	if s.Narration == "" {
		return ""
	}
	return filepath.Join(s.Dir, s.Narration)
}

// Silent reports whether the scene has no narration audio file.
func (s *Scene) Silent() bool {
	return s.Narration == ""
}

// CaptionAt returns the caption text active at playback position t, or ""
// if no caption has started yet. Captions are expected in ascending order.
func (s *Scene) CaptionAt(t time.Duration) string {
	text := ""
	for _, c := range s.Captions {
		if time.Duration(c.At) > t {
			break
		}
		text = c.Text
	}
	return text
}

// SilentDuration returns the narration length for silent scenes as a
// time.Duration.
func (s *Scene) SilentDuration() time.Duration {
	return time.Duration(s.NarrationDuration)
}
