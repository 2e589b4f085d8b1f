// Package noscenes provides the empty state view shown when the scenes
// directory has no exhibits.
package noscenes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/platart"
	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/styles"
)

// Model holds the noscenes view state.
type Model struct {
	scenesDir string
	width     int
	height    int
}

// New creates a new noscenes view for the given scenes directory.
func New(scenesDir string) Model {
	return Model{scenesDir: scenesDir}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the empty state.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	art := platart.BuildPlatypusArt()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.TextPrimaryColor).
		MarginTop(1)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextDescriptionColor)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true).
		MarginTop(2)

	var content strings.Builder

	content.WriteString(art)
	content.WriteString("\n\n")
	content.WriteString(titleStyle.Render("The billabong is empty!"))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render("No scenes found in " + m.scenesDir + "."))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render("Try one of these options:"))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render("  1. Run 'platarpus view billabong' to watch the built-in demo"))
	content.WriteString("\n")
	content.WriteString(messageStyle.Render("  2. Add a scene: create " + m.scenesDir + "/<id>/scene.yaml"))
	content.WriteString("\n")
	content.WriteString(messageStyle.Render("  3. Point at another directory with --scenes-dir or scenes_dir in the config"))
	content.WriteString("\n\n")
	content.WriteString(hintStyle.Render("Press q to quit"))

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	return containerStyle.Render(content.String())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}
