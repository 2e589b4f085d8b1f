package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DisabledIsNoOp(t *testing.T) {
	provider, err := Setup(context.Background(), Config{Enabled: false}, "test", nil)
	require.NoError(t, err)
	require.NotNil(t, provider)

	// Shutdown of a no-op provider must not fail.
	assert.NoError(t, provider.Shutdown(context.Background()))

	// Tracer still hands out usable (no-op) spans.
	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}

func TestSetup_StdoutExporterEmitsSpans(t *testing.T) {
	var buf bytes.Buffer
	provider, err := Setup(context.Background(), Config{
		Enabled:  true,
		Exporter: ExporterStdout,
	}, "test", &buf)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "scene.load")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "scene.load")
	// The service resource must survive the merge with resource.Default();
	// a semconv schema mismatch there makes Setup fail outright.
	assert.Contains(t, buf.String(), "platarpus")
}

func TestSetup_UnknownExporterFails(t *testing.T) {
	_, err := Setup(context.Background(), Config{Enabled: true, Exporter: "carrier-pigeon"}, "test", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
