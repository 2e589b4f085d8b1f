// Package cmd implements the platarpus command line interface.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deadchur/ITC303-platARpus-v1/internal/config"
	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
)

var (
	cfg        config.Config
	cfgFile    string
	appVersion = "dev"

	flagScenesDir string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "platarpus",
	Short: "Narrated platypus exhibits in your terminal",
	Long: `platarpus shows animated, narrated exhibit scenes in the terminal.

Run with no arguments to view a scene; run 'platarpus scenes' to list the
scenes in your library. With no library configured, the embedded billabong
demo scene is shown.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.platarpus/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagScenesDir, "scenes-dir", "", "scenes directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentPreRunE = setup
}

// Execute runs the CLI. version is stamped by the build.
func Execute(version string) error {
	if version != "" {
		appVersion = version
	}
	rootCmd.Version = appVersion
	defer func() { _ = log.Close() }()
	return rootCmd.Execute()
}

// setup loads configuration and opens the debug log before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = loaded

	if flagScenesDir != "" {
		cfg.ScenesDir = flagScenesDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch cfg.UI.Mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	logPath, err := cfg.LogPathOrDefault()
	if err != nil {
		return err
	}
	if err := log.Init(logPath, logLevel(cfg.Log.Level)); err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	log.Info(log.CatConfig, "platarpus starting", "version", appVersion, "command", cmd.Name())
	return nil
}

// loadConfig merges the config file and PLATARPUS_* environment variables
// over the defaults. A missing config file is not an error.
func loadConfig() (config.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := config.HomeDir()
		if err != nil {
			return config.Config{}, err
		}
		v.AddConfigPath(home)
		v.SetConfigName("config")
	}
	v.SetEnvPrefix("PLATARPUS")
	v.AutomaticEnv()

	loaded := config.Defaults()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return loaded, nil
		}
		return config.Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := v.Unmarshal(&loaded); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return loaded, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// tracesPath is where stdout-exporter spans are written, so they never
// corrupt the TUI terminal.
func tracesPath() (string, error) {
	home, err := config.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "traces.jsonl"), nil
}
