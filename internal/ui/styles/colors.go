package styles

import "github.com/charmbracelet/lipgloss"

// Color tokens. Adaptive pairs pick the light or dark variant from the
// detected terminal background.
var (
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FFFFFF"}
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#4A4A4A", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"}

	// AccentColor marks the focused pane and the active transport button.
	AccentColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// WaterColor tints the animation pane; platypuses live in billabongs.
	WaterColor = lipgloss.AdaptiveColor{Light: "#209FB5", Dark: "#73D0F5"}

	CaptionColor = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#73F59F"}
	WarnColor    = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF8787"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#9A9A9A", Dark: "#4A4A4A"}
)
