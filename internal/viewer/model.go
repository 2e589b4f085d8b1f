package viewer

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/deadchur/ITC303-platARpus-v1/internal/playback"
	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
	"github.com/deadchur/ITC303-platARpus-v1/internal/ui/styles"
)

// Zone IDs for mouse hit testing.
const (
	zonePlayToggle = "viewer.play-toggle"
)

// frameTickMsg drives the animation clock.
type frameTickMsg time.Time

// stateChangedMsg redraws after an async controller state change
// (capability verdict, load progress, load outcome).
type stateChangedMsg struct{}

// Model is the Bubble Tea program showing one exhibit.
type Model struct {
	ctrl *Controller

	width  int
	height int

	showCaptions  bool
	showTransport bool

	frameInterval time.Duration
	lastTick      time.Time

	spinner spinner.Model
	loadBar progress.Model

	resumeNote string

	zones *zone.Manager
}

// NewModel builds the viewer TUI over an initialized controller.
func NewModel(ctrl *Controller, showCaptions, showTransport bool) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.AccentColor)

	rate := ctrl.Scene().FrameRate
	if rate <= 0 {
		rate = scene.DefaultFrameRate
	}
	return Model{
		ctrl:          ctrl,
		showCaptions:  showCaptions,
		showTransport: showTransport,
		frameInterval: time.Second / time.Duration(rate),
		spinner:       sp,
		loadBar:       progress.New(progress.WithDefaultGradient()),
		zones:         zone.New(),
	}
}

// WithResumeNote shows where a previous viewing of this scene left off.
// The note disappears once playback starts. Zero or negative positions are
// ignored.
func (m Model) WithResumeNote(position time.Duration) Model {
	if position > 0 {
		m.resumeNote = "Previously watched to " + styles.FormatTimestamp(position)
	}
	return m
}

// StateChanged returns the message the controller's OnChange hook should
// feed into the program.
func StateChanged() tea.Msg {
	return stateChangedMsg{}
}

// Init starts the spinner and the frame clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.frameTick())
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.loadBar.Width = min(msg.Width-8, 48)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.ctrl.Teardown()
			return m, tea.Quit
		case " ", "p":
			m.ctrl.TogglePlay()
			return m, nil
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if m.zones.Get(zonePlayToggle).InBounds(msg) {
				m.ctrl.TogglePlay()
			}
		}
		return m, nil

	case frameTickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.ctrl.Advance(now.Sub(m.lastTick))
		}
		m.lastTick = now
		return m, m.frameTick()

	case stateChangedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the exhibit.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if report, ok := m.ctrl.Supported(); ok && !report.Supported {
		return m.unsupportedView(report.Reason)
	}
	if errMsg := m.ctrl.Err(); errMsg != "" && !m.ctrl.Loaded() {
		return m.errorView(errMsg)
	}
	if !m.ctrl.Loaded() {
		return m.loadingView()
	}
	return m.zones.Scan(m.exhibitView())
}

func (m Model) unsupportedView(reason string) string {
	msg := lipgloss.NewStyle().Foreground(styles.WarnColor).
		Render("This terminal cannot show animated exhibits: " + reason)
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).
		Render("Try a terminal with color support, or run 'platarpus doctor'.")
	return m.centered(msg + "\n\n" + hint)
}

func (m Model) errorView(errMsg string) string {
	msg := lipgloss.NewStyle().Foreground(styles.ErrorColor).Render(errMsg)
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).
		Render("Press q to quit")
	return m.centered(msg + "\n\n" + hint)
}

func (m Model) loadingView() string {
	label := lipgloss.NewStyle().Foreground(styles.TextDescriptionColor).
		Render("Loading " + m.ctrl.Scene().Title + "...")
	bar := m.loadBar.ViewAs(m.ctrl.LoadProgress())
	return m.centered(m.spinner.View() + " " + label + "\n\n" + bar)
}

func (m Model) exhibitView() string {
	paneHeight := m.height
	if m.showTransport {
		paneHeight -= 2
	}
	if m.showCaptions {
		paneHeight -= 2
	}
	note := ""
	if m.resumeNote != "" && m.ctrl.State() == playback.StateIdle {
		note = lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).
			PaddingLeft(2).Render(m.resumeNote)
		paneHeight--
	}
	paneHeight = max(paneHeight, 4)

	pane := m.animationPane(m.width, paneHeight)

	parts := []string{pane}
	if note != "" {
		parts = append(parts, note)
	}
	if m.showCaptions {
		parts = append(parts, m.captionLine())
	}
	if m.showTransport {
		parts = append(parts, m.transportBar())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) animationPane(width, height int) string {
	var body string
	if frame, ok := m.ctrl.Frame(); ok {
		frameStyle := lipgloss.NewStyle().Foreground(styles.WaterColor)
		body = lipgloss.Place(max(width-2, 1), max(height-2, 1),
			lipgloss.Center, lipgloss.Center,
			frameStyle.Render(strings.Join(frame.Lines, "\n")))
	}

	clock := styles.FormatClock(m.ctrl.Position(), m.ctrl.Duration())
	return styles.RenderWithTitleBorder(body, m.ctrl.Scene().Title, clock,
		width, height, m.ctrl.State() == playback.StatePlaying,
		styles.TextPrimaryColor, styles.AccentColor)
}

func (m Model) captionLine() string {
	text := m.ctrl.Scene().CaptionAt(m.ctrl.Position())
	if text == "" {
		return ""
	}
	wrapped := wordwrap.String(text, max(m.width-4, 10))
	return lipgloss.NewStyle().
		Foreground(styles.CaptionColor).
		PaddingLeft(2).
		Render(wrapped)
}

func (m Model) transportBar() string {
	var label string
	switch m.ctrl.State() {
	case playback.StatePlaying:
		label = "⏸ pause"
	case playback.StateEnded:
		label = "⟲ replay"
	default:
		label = "▶ play"
	}

	buttonStyle := lipgloss.NewStyle().
		Foreground(styles.AccentColor).
		Bold(true).
		Padding(0, 1)
	button := m.zones.Mark(zonePlayToggle, buttonStyle.Render(label))

	state := lipgloss.NewStyle().Foreground(styles.TextMutedColor).
		Render(m.ctrl.State().String())
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).
		Render("space: play/pause  q: quit")

	gap := m.width - lipgloss.Width(button) - lipgloss.Width(state) - lipgloss.Width(hint) - 4
	spacer := lipgloss.NewStyle().Width(max(gap, 1)).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Center, button, " ", state, spacer, hint)
}

func (m Model) centered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
