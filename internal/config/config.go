// Package config provides configuration types and defaults for platarpus.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for platarpus.
type Config struct {
	ScenesDir           string          `mapstructure:"scenes_dir"`
	AutoRefresh         bool            `mapstructure:"auto_refresh"`
	AutoRefreshDebounce time.Duration   `mapstructure:"auto_refresh_debounce"`
	Audio               AudioConfig     `mapstructure:"audio"`
	UI                  UIConfig        `mapstructure:"ui"`
	History             HistoryConfig   `mapstructure:"history"`
	Telemetry           TelemetryConfig `mapstructure:"telemetry"`
	Log                 LogConfig       `mapstructure:"log"`
}

// AudioConfig controls how narration audio is played.
type AudioConfig struct {
	// Player names the audio player binary to use. Empty means detect one
	// on PATH (afplay, paplay, aplay, ffplay, mpv).
	Player string `mapstructure:"player"`

	// ProgressInterval is how often playback position is sampled.
	ProgressInterval time.Duration `mapstructure:"progress_interval"`

	// StallThreshold is how long playback may go silent before the
	// watchdog reports a stall.
	StallThreshold time.Duration `mapstructure:"stall_threshold"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowCaptions  bool `mapstructure:"show_captions"`
	ShowTransport bool `mapstructure:"show_transport"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`
}

// HistoryConfig controls viewing-history persistence.
type HistoryConfig struct {
	// Enabled turns the resume-where-you-left-off store on.
	Enabled bool `mapstructure:"enabled"`

	// Path is the SQLite database file. Empty means
	// ~/.platarpus/platarpus.db.
	Path string `mapstructure:"path"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Exporter is "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"`

	// Endpoint is the OTLP/gRPC collector address, host:port.
	Endpoint string `mapstructure:"endpoint"`

	// SampleRatio is the fraction of traces to sample; 0 means all.
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	// Path is the log file. Empty means ~/.platarpus/platarpus.log.
	Path string `mapstructure:"path"`

	// Level is "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`
}

// Validate checks configuration values that have a closed set of options.
func (c Config) Validate() error {
	switch c.UI.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("ui.mode: must be \"light\", \"dark\" or empty, got %q", c.UI.Mode)
	}

	switch c.Telemetry.Exporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("telemetry.exporter: must be \"stdout\" or \"otlp\", got %q", c.Telemetry.Exporter)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio: must be between 0 and 1, got %v", c.Telemetry.SampleRatio)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: must be \"debug\", \"info\", \"warn\" or \"error\", got %q", c.Log.Level)
	}

	if c.AutoRefreshDebounce < 0 {
		return fmt.Errorf("auto_refresh_debounce: must not be negative")
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh:         true,
		AutoRefreshDebounce: 250 * time.Millisecond,
		Audio: AudioConfig{
			ProgressInterval: 250 * time.Millisecond,
			StallThreshold:   3 * time.Second,
		},
		UI: UIConfig{
			ShowCaptions:  true,
			ShowTransport: true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Telemetry: TelemetryConfig{
			Exporter: "stdout",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// HomeDir returns the platarpus data directory, ~/.platarpus.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".platarpus"), nil
}

// ScenesDirOrDefault resolves the scenes directory.
func (c Config) ScenesDirOrDefault() (string, error) {
	if c.ScenesDir != "" {
		return c.ScenesDir, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "scenes"), nil
}

// HistoryPathOrDefault resolves the viewing-history database file.
func (c Config) HistoryPathOrDefault() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "platarpus.db"), nil
}

// LogPathOrDefault resolves the log file.
func (c Config) LogPathOrDefault() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "platarpus.log"), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# platarpus Configuration

# Directory holding exhibit scenes, one subdirectory per scene with a
# scene.yaml manifest (default: ~/.platarpus/scenes)
# scenes_dir: /path/to/scenes

# Rescan the scenes directory when it changes on disk
auto_refresh: true
auto_refresh_debounce: 250ms

# Narration audio
audio:
  # Audio player binary; leave empty to detect one on PATH.
  # Checked in order: afplay, paplay, aplay, ffplay, mpv
  # player: paplay

  # How often playback position is sampled
  progress_interval: 250ms

  # How long playback may go silent before a stall is reported
  stall_threshold: 3s

# UI settings
ui:
  show_captions: true   # Timed narration text under the animation
  show_transport: true  # Play/pause bar with elapsed time

  # Force light or dark rendering; leave empty for terminal detection
  # mode: dark

# Viewing history (resume where you left off)
history:
  enabled: true
  # path: ~/.platarpus/platarpus.db

# OpenTelemetry tracing (off by default)
telemetry:
  enabled: false
  # exporter: otlp          # "stdout" or "otlp"
  # endpoint: localhost:4317
  # sample_ratio: 0.1

# Debug log
log:
  level: info
  # path: ~/.platarpus/platarpus.log
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
