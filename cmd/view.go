package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deadchur/ITC303-platARpus-v1/internal/asset"
	"github.com/deadchur/ITC303-platARpus-v1/internal/capability"
	"github.com/deadchur/ITC303-platARpus-v1/internal/infrastructure/sqlite"
	"github.com/deadchur/ITC303-platARpus-v1/internal/library"
	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/playback"
	"github.com/deadchur/ITC303-platARpus-v1/internal/pubsub"
	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
	"github.com/deadchur/ITC303-platARpus-v1/internal/telemetry"
	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/noscenes"
	"github.com/deadchur/ITC303-platARpus-v1/internal/viewer"
	"github.com/deadchur/ITC303-platARpus-v1/internal/viewing"
	viewingdomain "github.com/deadchur/ITC303-platARpus-v1/internal/viewing/domain"
)

var viewCmd = &cobra.Command{
	Use:   "view [scene-id]",
	Short: "View an exhibit scene",
	Long: `View a narrated exhibit scene. With no scene id, the library's only
scene is shown. 'platarpus view billabong' shows the embedded demo scene
even without a scene library.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	scenesDir, err := cfg.ScenesDirOrDefault()
	if err != nil {
		return err
	}
	lib := library.New(scenesDir)
	if err := lib.Reload(); err != nil {
		return fmt.Errorf("scanning scenes directory: %w", err)
	}

	sc, embedded, err := resolveScene(lib, args)
	if err != nil {
		return err
	}
	if sc == nil {
		// Empty library, nothing requested: show the empty state.
		_, err := tea.NewProgram(noscenes.New(scenesDir), tea.WithAltScreen()).Run()
		return err
	}

	provider, err := setupTelemetry(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	source, err := buildSource(sc)
	if err != nil {
		return err
	}

	broker := pubsub.NewBroker[playback.Event]()

	watchdog, err := playback.NewWatchdog(playback.WatchdogConfig{
		Broker:         broker,
		StallThreshold: cfg.Audio.StallThreshold,
	})
	if err != nil {
		return err
	}
	watchdog.Start(ctx)
	defer watchdog.Stop()

	var resumePosition time.Duration
	if cfg.History.Enabled {
		historyPath, err := cfg.HistoryPathOrDefault()
		if err != nil {
			return err
		}
		db, err := sqlite.NewDB(historyPath)
		if err != nil {
			// History is a convenience; the exhibit still shows without it.
			log.ErrorErr(log.CatDB, "viewing history unavailable", err, "path", historyPath)
		} else {
			defer func() { _ = db.Close() }()
			repo := db.ViewingRepository()
			resumePosition = lookupResumePoint(repo, sc.ID)

			recorder, err := viewing.NewRecorder(repo, broker, 0)
			if err != nil {
				return err
			}
			recorder.Start(ctx)
			defer recorder.Stop()
		}
	}

	loader := asset.NewLoader()
	if cfg.AutoRefresh {
		stop := startAutoRefresh(ctx, lib, loader, sc)
		defer stop()
	}

	var program *tea.Program
	ctrl, err := viewer.NewController(viewer.ControllerConfig{
		Scene:  sc,
		Model:  embedded,
		Source: source,
		Probe:  capability.NewProbe(),
		Loader: loader,
		Broker: broker,
		OnChange: func() {
			if program != nil {
				program.Send(viewer.StateChanged())
			}
		},
	})
	if err != nil {
		return err
	}

	m := viewer.NewModel(ctrl, cfg.UI.ShowCaptions, cfg.UI.ShowTransport).
		WithResumeNote(resumePosition)
	// The program must exist before Initialize spawns the goroutines whose
	// callbacks read it through OnChange.
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if err := ctrl.Initialize(ctx); err != nil {
		return err
	}
	defer ctrl.Teardown()

	_, err = program.Run()
	return err
}

// startAutoRefresh watches the scenes directory, rescanning the library and
// dropping the current scene's cached model bundle when files change. A
// watcher that cannot start is logged and skipped; the exhibit still shows.
func startAutoRefresh(ctx context.Context, lib *library.Library, loader *asset.Loader, sc *scene.Scene) func() {
	watcher := library.NewWatcher(lib, cfg.AutoRefreshDebounce, func() {
		loader.Invalidate(sc.ModelPath())
	})
	if err := watcher.Start(ctx); err != nil {
		log.Warn(log.CatLibrary, "auto refresh unavailable", "error", err)
		return func() {}
	}
	return watcher.Stop
}

// resolveScene picks the scene to show. Returns (nil, nil, nil) when the
// library is empty and nothing was requested by id.
func resolveScene(lib *library.Library, args []string) (*scene.Scene, *scene.Model, error) {
	if len(args) == 1 {
		id := args[0]
		sc, err := lib.Get(id)
		if err == nil {
			return sc, nil, nil
		}
		var notFound *library.SceneNotFoundError
		if errors.As(err, &notFound) && id == scene.DemoSceneID {
			return demoScene()
		}
		return nil, nil, err
	}

	switch lib.Len() {
	case 0:
		return nil, nil, nil
	case 1:
		return lib.Scenes()[0], nil, nil
	default:
		return nil, nil, fmt.Errorf("library has %d scenes; run 'platarpus scenes' and pick one", lib.Len())
	}
}

func demoScene() (*scene.Scene, *scene.Model, error) {
	sc, m, err := scene.DemoScene()
	if err != nil {
		return nil, nil, fmt.Errorf("embedded demo scene: %w", err)
	}
	return sc, m, nil
}

// fallbackClipLength stands in when a scene declares no narration duration
// and no audio player can pace it. A zero-length ticker would end on its
// first tick and freeze the animation.
const fallbackClipLength = 5 * time.Minute

// buildSource picks the narration source: an external audio player for
// narrated scenes, a silent clock otherwise. A missing audio player degrades
// to the clock so the animation and captions still run.
func buildSource(sc *scene.Scene) (playback.Source, error) {
	if sc.Silent() {
		return playback.NewTickerSource(clipLength(sc), cfg.Audio.ProgressInterval), nil
	}

	player, err := playback.DetectPlayer(cfg.Audio.Player)
	if err != nil {
		log.Warn(log.CatPlayback, "No audio player, narration will be silent", "scene", sc.ID, "error", err)
		return playback.NewTickerSource(clipLength(sc), cfg.Audio.ProgressInterval), nil
	}
	return playback.NewExecSource(sc.NarrationPath(), player, cfg.Audio.ProgressInterval), nil
}

func clipLength(sc *scene.Scene) time.Duration {
	if d := sc.SilentDuration(); d > 0 {
		return d
	}
	return fallbackClipLength
}

// lookupResumePoint returns where the last unfinished viewing of the scene
// stopped, or 0.
func lookupResumePoint(repo viewingdomain.ViewingRepository, sceneID string) time.Duration {
	v, err := repo.LatestResumable(sceneID)
	if err != nil {
		var noResume *viewingdomain.NoResumePointError
		if !errors.As(err, &noResume) {
			log.Warn(log.CatDB, "resume lookup failed", "scene", sceneID, "error", err)
		}
		return 0
	}
	return v.Position()
}

// setupTelemetry installs the tracer provider. Stdout spans go to a file in
// the platarpus home directory, never the terminal.
func setupTelemetry(ctx context.Context) (*telemetry.Provider, error) {
	tcfg := telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
		SampleRatio: cfg.Telemetry.SampleRatio,
	}
	if !tcfg.Enabled {
		return telemetry.Setup(ctx, tcfg, appVersion, nil)
	}

	var spanSink *os.File
	if tcfg.Exporter == "" || tcfg.Exporter == "stdout" {
		path, err := tracesPath()
		if err != nil {
			return nil, err
		}
		spanSink, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path is under the platarpus home dir
		if err != nil {
			return nil, fmt.Errorf("opening traces file: %w", err)
		}
	}
	provider, err := telemetry.Setup(ctx, tcfg, appVersion, spanSink)
	if err != nil {
		if spanSink != nil {
			_ = spanSink.Close()
		}
		return nil, err
	}
	return provider, nil
}
