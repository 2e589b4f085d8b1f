// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"time"
)

// FormatTimestamp renders a playback position as m:ss, or h:mm:ss past an
// hour. Negative positions clamp to 0:00.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatClock renders "position / total" for the transport bar. A zero
// total (unknown length) renders the position alone.
func FormatClock(position, total time.Duration) string {
	if total <= 0 {
		return FormatTimestamp(position)
	}
	return FormatTimestamp(position) + " / " + FormatTimestamp(total)
}
