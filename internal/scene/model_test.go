package scene

import (
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModel = `@clip swim loop=true
 ><>
---
 <><
@clip rest
(fish)
`

func TestParseModel(t *testing.T) {
	m, err := ParseModel("sample", strings.NewReader(sampleModel))
	require.NoError(t, err)

	require.Len(t, m.Clips, 2)

	swim, ok := m.Clip("swim")
	require.True(t, ok)
	assert.True(t, swim.Loop)
	require.Len(t, swim.Frames, 2)
	requireFrameEqual(t, " ><>", swim.Frames[0])
	requireFrameEqual(t, " <><", swim.Frames[1])

	rest, ok := m.Clip("rest")
	require.True(t, ok)
	assert.False(t, rest.Loop)
	require.Len(t, rest.Frames, 1)

	_, ok = m.Clip("dive")
	assert.False(t, ok)
}

func TestParseModel_TrimsBlankFrameEdges(t *testing.T) {
	input := "@clip a\n\n\n  x\n\n---\n\n  y\n"
	m, err := ParseModel("trim", strings.NewReader(input))
	require.NoError(t, err)

	a := m.Clips[0]
	require.Len(t, a.Frames, 2)
	assert.Equal(t, []string{"  x"}, a.Frames[0].Lines)
	assert.Equal(t, []string{"  y"}, a.Frames[1].Lines)
}

func TestParseModel_FrameMetrics(t *testing.T) {
	input := "@clip a\nab\nワニ\nabcd\n"
	m, err := ParseModel("metrics", strings.NewReader(input))
	require.NoError(t, err)

	frame := m.Clips[0].Frames[0]
	assert.Equal(t, 3, frame.Height)
	// Wide runes count two cells each: ワニ is 4 cells, abcd is 4 cells.
	assert.Equal(t, 4, frame.Width)
}

func TestParseModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"content before clip", "hello\n@clip a\nx\n", "content before any @clip"},
		{"separator before clip", "---\n", "frame separator before any @clip"},
		{"clip without name", "@clip\nx\n", "@clip requires a name"},
		{"malformed option", "@clip a loop\nx\n", "malformed clip option"},
		{"malformed loop value", "@clip a loop=sometimes\nx\n", "malformed loop value"},
		{"unknown option", "@clip a speed=2\nx\n", "unknown clip option"},
		{"empty clip", "@clip a\n", `clip "a" has no frames`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel("bad", strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// requireFrameEqual compares a single-line frame against its expected text,
// printing a character-level diff on mismatch.
func requireFrameEqual(t *testing.T, want string, frame Frame) {
	t.Helper()
	got := strings.Join(frame.Lines, "\n")
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Fatalf("frame mismatch:\n%s", dmp.DiffPrettyText(diffs))
}
