package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/deadchur/ITC303-platARpus-v1/internal/capability"
	"github.com/deadchur/ITC303-platARpus-v1/internal/playback"
	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/platart"
	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/styles"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether this terminal can show exhibits",
	Long: `Probe the terminal and audio setup and report what platarpus can do
here: color support, background detection, and which audio player would
narrate scenes.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	okStyle := lipgloss.NewStyle().Foreground(styles.AccentColor)
	badStyle := lipgloss.NewStyle().Foreground(styles.ErrorColor)

	report := capability.NewProbe().Query()
	if report.Supported {
		background := "light"
		if report.DarkBackground {
			background = "dark"
		}
		fmt.Fprintf(out, "%s terminal: %s, %s, %s background\n",
			okStyle.Render("✓"), report.Term, report.ProfileName(), background)
	} else {
		fmt.Fprintf(out, "%s terminal: %s\n", badStyle.Render("✗"), report.Reason)
	}

	player, err := playback.DetectPlayer(cfg.Audio.Player)
	if err != nil {
		fmt.Fprintf(out, "%s audio: %v\n", badStyle.Render("✗"), err)
		fmt.Fprintf(out, "  Narrated scenes will play silently.\n")
	} else {
		fmt.Fprintf(out, "%s audio: %s\n", okStyle.Render("✓"), player.Binary)
	}

	if report.Supported {
		fmt.Fprintf(out, "\n%s\n", platart.BuildPlatypusArt())
	}
	return nil
}
