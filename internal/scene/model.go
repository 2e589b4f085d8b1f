package scene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Model is a decoded model bundle: a set of named animation clips. A model
// with zero clips is valid and renders as a static frame.
type Model struct {
	Name  string
	Clips []Clip
}

// Clip is a named sequence of frames played at the scene frame rate.
type Clip struct {
	Name   string
	Loop   bool
	Frames []Frame
}

// Frame is one cell-grid image of the model.
type Frame struct {
	Lines  []string
	Width  int // widest line, in terminal cells
	Height int
}

// Clip lookup by name; returns false if the model has no such clip.
func (m *Model) Clip(name string) (Clip, bool) {
	for _, c := range m.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return Clip{}, false
}

// Model bundle format: a plain-text file of clip sections.
//
//	@clip swim loop=true
//	<frame lines>
//	---
//	<frame lines>
//	@clip rest
//	...
//
// "---" separates frames within a clip; "@clip" starts a new clip. Blank
// lines inside a frame are preserved; leading and trailing blank lines of
// each frame are trimmed.
const (
	clipDirective  = "@clip"
	frameSeparator = "---"
)

// ParseModel decodes a model bundle. name labels the model in errors.
func ParseModel(name string, r io.Reader) (*Model, error) {
	model := &Model{Name: name}

	var (
		clip    *Clip
		pending []string
	)

	flushFrame := func() {
		frame, ok := buildFrame(pending)
		pending = nil
		if ok && clip != nil {
			clip.Frames = append(clip.Frames, frame)
		}
	}
	flushClip := func() {
		if clip == nil {
			return
		}
		flushFrame()
		model.Clips = append(model.Clips, *clip)
		clip = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, clipDirective):
			flushClip()
			c, err := parseClipDirective(line)
			if err != nil {
				return nil, fmt.Errorf("model %s line %d: %w", name, lineNo, err)
			}
			clip = &c

		case strings.TrimSpace(line) == frameSeparator:
			if clip == nil {
				return nil, fmt.Errorf("model %s line %d: frame separator before any @clip", name, lineNo)
			}
			flushFrame()

		default:
			if clip != nil {
				pending = append(pending, line)
			} else if strings.TrimSpace(line) != "" {
				return nil, fmt.Errorf("model %s line %d: content before any @clip", name, lineNo)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading model %s: %w", name, err)
	}
	flushClip()

	for _, c := range model.Clips {
		if len(c.Frames) == 0 {
			return nil, fmt.Errorf("model %s: clip %q has no frames", name, c.Name)
		}
	}
	return model, nil
}

// parseClipDirective parses "@clip <name> [loop=true|false]".
func parseClipDirective(line string) (Clip, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Clip{}, fmt.Errorf("@clip requires a name")
	}
	clip := Clip{Name: fields[1]}
	for _, opt := range fields[2:] {
		key, value, found := strings.Cut(opt, "=")
		if !found {
			return Clip{}, fmt.Errorf("malformed clip option %q", opt)
		}
		switch key {
		case "loop":
			loop, err := strconv.ParseBool(value)
			if err != nil {
				return Clip{}, fmt.Errorf("malformed loop value %q", value)
			}
			clip.Loop = loop
		default:
			return Clip{}, fmt.Errorf("unknown clip option %q", key)
		}
	}
	return clip, nil
}

// buildFrame trims surrounding blank lines and measures the frame.
// Returns ok=false for an all-blank frame (e.g. separators back to back).
func buildFrame(lines []string) (Frame, bool) {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return Frame{}, false
	}

	trimmed := make([]string, end-start)
	copy(trimmed, lines[start:end])

	width := 0
	for _, line := range trimmed {
		// Strip any escape sequences before measuring; frame art may carry
		// color codes, and wide runes count as two cells.
		if w := runewidth.StringWidth(ansi.Strip(line)); w > width {
			width = w
		}
	}
	return Frame{Lines: trimmed, Width: width, Height: len(trimmed)}, true
}
