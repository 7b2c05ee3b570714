package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"udscan/internal/platform/config"
)

func restoreProvider(t *testing.T) {
	t.Helper()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() {
		if otel.GetTracerProvider() != prev {
			otel.SetTracerProvider(prev)
		}
	})
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("no exporter leaves the global provider alone", func(t *testing.T) {
		restoreProvider(t)
		before := otel.GetTracerProvider()

		shutdown, err := Setup(ctx, config.TracingConfig{}, "run-1")
		require.NoError(t, err)
		assert.Same(t, before, otel.GetTracerProvider())
		assert.NoError(t, shutdown(ctx))
	})

	t.Run("file exporter writes spans tagged with the run id", func(t *testing.T) {
		restoreProvider(t)
		path := filepath.Join(t.TempDir(), "traces.json")

		shutdown, err := Setup(ctx, config.TracingConfig{
			Exporter: config.TraceExporterFile,
			File:     path,
		}, "run-42")
		require.NoError(t, err)

		_, span := otel.Tracer("test").Start(ctx, "scan.lookup")
		span.End()
		require.NoError(t, shutdown(ctx))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"Name":"scan.lookup"`)
		assert.Contains(t, string(data), "run-42")
	})

	t.Run("file exporter reports an unwritable path", func(t *testing.T) {
		restoreProvider(t)
		_, err := Setup(ctx, config.TracingConfig{
			Exporter: config.TraceExporterFile,
			File:     filepath.Join(t.TempDir(), "missing", "traces.json"),
		}, "run-1")
		assert.Error(t, err)
	})

	t.Run("unknown exporter", func(t *testing.T) {
		restoreProvider(t)
		_, err := Setup(ctx, config.TracingConfig{Exporter: "jaeger"}, "run-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jaeger")
	})
}
