// Package platart provides the shared platypus ASCII art used by the
// noscenes and doctor views.
package platart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Art piece color definitions (internal to package).
var (
	billColor   = lipgloss.Color("#FECA57") // Yellow - duck bill
	bodyColor   = lipgloss.Color("#B5835A") // Brown - fur
	waterColor  = lipgloss.Color("#54A0FF") // Blue - billabong
	rippleColor = lipgloss.Color("#73D0F5") // Light blue - ripples
)

// Art pieces (rendered separately for coloring). The platypus floats on a
// water line with ripples on both sides.
var (
	rippleLeftLines = []string{
		"",
		"",
		"  ~   ",
		"~~~~~~",
	}

	billLines = []string{
		"      ",
		"      ",
		"___   ",
		"   \\__",
	}

	bodyLines = []string{
		"      _____________",
		"    /               \\___",
		"   (    o                \\___",
		"    \\________________________/",
	}

	rippleRightLines = []string{
		"",
		"",
		"   ~    ~  ",
		"~~~~~~~~~~~",
	}
)

// BuildPlatypusArt constructs the colored platypus ASCII art.
func BuildPlatypusArt() string {
	billStyle := lipgloss.NewStyle().Foreground(billColor)
	bodyStyle := lipgloss.NewStyle().Foreground(bodyColor)
	rippleStyle := lipgloss.NewStyle().Foreground(rippleColor)

	height := len(bodyLines)
	leftRendered := renderLines(padLines(rippleLeftLines, height), rippleStyle)
	billRendered := renderLines(padLines(billLines, height), billStyle)
	bodyRendered := renderLines(padLines(bodyLines, height), bodyStyle)
	rightRendered := renderLines(padLines(rippleRightLines, height), rippleStyle)

	art := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftRendered,
		billRendered,
		bodyRendered,
		rightRendered,
	)

	waterStyle := lipgloss.NewStyle().Foreground(waterColor)
	waterLine := waterStyle.Render(strings.Repeat("~", lipgloss.Width(art)))
	return art + "\n" + waterLine
}

// padLines pads a piece to the target height so horizontal joining lines up.
func padLines(lines []string, targetHeight int) []string {
	if len(lines) >= targetHeight {
		return lines
	}

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	emptyLine := strings.Repeat(" ", maxWidth)
	result := make([]string, 0, targetHeight)
	for range targetHeight - len(lines) {
		result = append(result, emptyLine)
	}
	return append(result, lines...)
}

// renderLines joins lines with newlines and applies a style.
func renderLines(lines []string, style lipgloss.Style) string {
	return style.Render(strings.Join(lines, "\n"))
}
