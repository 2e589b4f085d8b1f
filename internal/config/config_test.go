package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, 250*time.Millisecond, cfg.AutoRefreshDebounce)
	assert.Equal(t, 250*time.Millisecond, cfg.Audio.ProgressInterval)
	assert.Equal(t, 3*time.Second, cfg.Audio.StallThreshold)
	assert.True(t, cfg.UI.ShowCaptions)
	assert.True(t, cfg.UI.ShowTransport)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "stdout", cfg.Telemetry.Exporter)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"dark mode", func(c *Config) { c.UI.Mode = "dark" }, ""},
		{"bad mode", func(c *Config) { c.UI.Mode = "sepia" }, "ui.mode"},
		{"otlp exporter", func(c *Config) { c.Telemetry.Exporter = "otlp" }, ""},
		{"bad exporter", func(c *Config) { c.Telemetry.Exporter = "jaeger" }, "telemetry.exporter"},
		{"bad sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }, "sample_ratio"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"negative debounce", func(c *Config) { c.AutoRefreshDebounce = -time.Second }, "auto_refresh_debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigTemplate_RoundTripsThroughViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	// The template's uncommented values must match Defaults so a freshly
	// written config behaves identically to no config at all.
	defaults := Defaults()
	assert.Equal(t, defaults.AutoRefresh, cfg.AutoRefresh)
	assert.Equal(t, defaults.AutoRefreshDebounce, cfg.AutoRefreshDebounce)
	assert.Equal(t, defaults.Audio.ProgressInterval, cfg.Audio.ProgressInterval)
	assert.Equal(t, defaults.Audio.StallThreshold, cfg.Audio.StallThreshold)
	assert.Equal(t, defaults.UI, cfg.UI)
	assert.Equal(t, defaults.History.Enabled, cfg.History.Enabled)
	assert.Equal(t, defaults.Telemetry.Enabled, cfg.Telemetry.Enabled)
	assert.Equal(t, defaults.Log.Level, cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "scenes_dir")
	assert.Contains(t, string(content), "auto_refresh: true")
}

func TestPathDefaults(t *testing.T) {
	cfg := Defaults()

	scenes, err := cfg.ScenesDirOrDefault()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(scenes, filepath.Join(".platarpus", "scenes")))

	cfg.ScenesDir = "/opt/exhibits"
	scenes, err = cfg.ScenesDirOrDefault()
	require.NoError(t, err)
	assert.Equal(t, "/opt/exhibits", scenes)

	history, err := cfg.HistoryPathOrDefault()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(history, "platarpus.db"))

	logPath, err := cfg.LogPathOrDefault()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(logPath, "platarpus.log"))
}
