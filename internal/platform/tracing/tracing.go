// Package tracing installs the global OpenTelemetry tracer provider for a run.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"udscan/internal/platform/config"
)

const serviceName = "udscan"

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup builds an exporter from cfg and registers a tracer provider that tags
// every span with the run ID. With no exporter configured the global no-op
// provider stays in place.
func Setup(ctx context.Context, cfg config.TracingConfig, runID string) (Shutdown, error) {
	var (
		exporter sdktrace.SpanExporter
		closers  []func() error
	)
	switch cfg.Exporter {
	case config.TraceExporterNone:
		return noop, nil
	case config.TraceExporterFile:
		f, err := os.Create(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("tracing: open trace file: %w", err)
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("tracing: file exporter: %w", err)
		}
		exporter = exp
		closers = append(closers, f.Close)
	case config.TraceExporterOTLP:
		exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
		if err != nil {
			return nil, fmt.Errorf("tracing: otlp exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, fmt.Errorf("tracing: unknown exporter %q", cfg.Exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("run.id", runID),
		)),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		for _, c := range closers {
			err = errors.Join(err, c())
		}
		return err
	}, nil
}
