package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/deadchur/ITC303-platARpus-v1/internal/library"
	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/styles"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the scenes in your library",
	RunE:  runScenesList,
}

var scenesShowCmd = &cobra.Command{
	Use:   "show <scene-id>",
	Short: "Show a scene's details and description",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenesShow,
}

var scenesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the embedded demo scene into your scenes directory",
	RunE:  runScenesExport,
}

func init() {
	scenesCmd.AddCommand(scenesShowCmd)
	scenesCmd.AddCommand(scenesExportCmd)
	rootCmd.AddCommand(scenesCmd)
}

func openLibrary() (*library.Library, error) {
	scenesDir, err := cfg.ScenesDirOrDefault()
	if err != nil {
		return nil, err
	}
	lib := library.New(scenesDir)
	if err := lib.Reload(); err != nil {
		return nil, fmt.Errorf("scanning scenes directory: %w", err)
	}
	return lib, nil
}

func runScenesList(cmd *cobra.Command, _ []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if lib.Len() == 0 {
		fmt.Fprintf(out, "No scenes in %s.\n", lib.Dir())
		fmt.Fprintf(out, "Run 'platarpus scenes export' to install the demo scene, or 'platarpus view billabong' to watch it directly.\n")
		return nil
	}

	idStyle := lipgloss.NewStyle().Foreground(styles.AccentColor).Bold(true)
	titleStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	metaStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	for _, sc := range lib.Scenes() {
		meta := "silent, " + styles.FormatTimestamp(sc.SilentDuration())
		if !sc.Silent() {
			meta = "narrated"
		}
		fmt.Fprintf(out, "%s  %s  %s\n",
			idStyle.Render(sc.ID),
			titleStyle.Render(sc.Title),
			metaStyle.Render("("+meta+")"))
	}
	return nil
}

func runScenesShow(cmd *cobra.Command, args []string) error {
	sc, err := findScene(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", sc.Title, sc.ID)
	if !sc.Silent() {
		fmt.Fprintf(out, "Narration: %s\n", sc.Narration)
	} else {
		fmt.Fprintf(out, "Silent scene, %s\n", styles.FormatTimestamp(sc.SilentDuration()))
	}
	fmt.Fprintf(out, "Model: %s, %d fps\n", sc.Model, sc.FrameRate)
	if len(sc.Captions) > 0 {
		fmt.Fprintf(out, "Captions: %d\n", len(sc.Captions))
	}

	if strings.TrimSpace(sc.Description) == "" {
		return nil
	}
	rendered, err := renderMarkdown(sc.Description)
	if err != nil {
		// Fall back to the raw markdown rather than hiding the description.
		fmt.Fprintf(out, "\n%s\n", sc.Description)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}

// findScene resolves an id against the library, falling back to the
// embedded demo scene.
func findScene(id string) (*scene.Scene, error) {
	lib, err := openLibrary()
	if err != nil {
		return nil, err
	}
	sc, err := lib.Get(id)
	if err == nil {
		return sc, nil
	}
	if id == scene.DemoSceneID {
		demo, _, derr := scene.DemoScene()
		if derr == nil {
			return demo, nil
		}
	}
	return nil, err
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

// runScenesExport copies the embedded demo scene into the scenes directory,
// giving users a working manifest to copy from.
func runScenesExport(cmd *cobra.Command, _ []string) error {
	scenesDir, err := cfg.ScenesDirOrDefault()
	if err != nil {
		return err
	}
	target := filepath.Join(scenesDir, scene.DemoSceneID)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s already exists; remove it first to re-export", target)
	}

	if err := copyFS(target, scene.DemoAssets(), "assets/demo"); err != nil {
		return fmt.Errorf("exporting demo scene: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Demo scene written to %s\n", target)
	fmt.Fprintf(cmd.OutOrStdout(), "View it with: platarpus view %s\n", scene.DemoSceneID)
	return nil
}

// copyFS writes every file under root in fsys into dir, flattening the root
// prefix.
func copyFS(dir string, fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0750)
		}

		src, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // G304: dst is under the configured scenes dir
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, src); err != nil {
			_ = out.Close()
			return err
		}
		return out.Close()
	})
}
