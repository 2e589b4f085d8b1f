// Package telemetry sets up OpenTelemetry tracing. Tracing is off by
// default; an exhibit kiosk can point it at a collector to see where
// scene loads and playback sessions spend their time.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	// Must match the schema of resource.Default(); Merge rejects
	// conflicting schema URLs.
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
)

const instrumentationName = "github.com/deadchur/ITC303-platARpus-v1"

// Exporter names accepted in Config.Exporter.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config selects and configures the trace exporter.
type Config struct {
	// Enabled turns tracing on. When false Setup installs nothing and
	// Tracer returns a no-op tracer.
	Enabled bool
	// Exporter is "stdout" or "otlp".
	Exporter string
	// Endpoint is the OTLP/gRPC collector address, host:port.
	Endpoint string
	// SampleRatio is the fraction of traces to sample; <= 0 means 1.0.
	SampleRatio float64
}

// Provider owns the installed tracer provider.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup installs a global tracer provider per cfg. stdoutW receives spans
// when the stdout exporter is selected; it must not be the terminal the
// viewer draws on.
func Setup(ctx context.Context, cfg Config, version string, stdoutW io.Writer) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case ExporterStdout, "":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(stdoutW))
	case ExporterOTLP:
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s trace exporter: %w", cfg.Exporter, err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("platarpus"),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("building telemetry resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)
	log.Info(log.CatConfig, "tracing enabled", "exporter", cfg.Exporter, "endpoint", cfg.Endpoint)

	return &Provider{tp: tp}, nil
}

// Shutdown flushes and stops the tracer provider. No-op when tracing was
// never enabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Tracer returns the application tracer. Safe to call whether or not
// tracing is enabled; spans are no-ops when it is not.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
