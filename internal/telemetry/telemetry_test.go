package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Init(ctx, Options{Enabled: false}))
	defer Shutdown(ctx)

	_, span := Tracer("").Start(ctx, "noop")
	assert.False(t, span.SpanContext().IsValid(), "no-op tracer should not produce valid spans")
	span.End()
	assert.Empty(t, shutdownFns)
}

func TestInitEnabledWritesSpansToWriter(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, Init(ctx, Options{Enabled: true, Stdout: true, ServiceName: "rd", Version: "test", Writer: &buf}))

	_, span := Tracer("").Start(ctx, "raindrop.request")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	Shutdown(ctx)
	assert.Contains(t, buf.String(), "raindrop.request")

	// Leave the globals in the no-op state for other tests.
	require.NoError(t, Init(ctx, Options{}))
}

func TestInitEnabledWithoutStdoutWritesNothing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, Init(ctx, Options{Enabled: true, ServiceName: "rd", Version: "test", Writer: &buf}))

	_, span := Tracer("").Start(ctx, "raindrop.request")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	Shutdown(ctx)
	assert.Empty(t, buf.String())
	require.NoError(t, Init(ctx, Options{}))
}

func TestOTLPProtocolSelection(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL", "")
	assert.Equal(t, "http/protobuf", otlpProtocol())

	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	assert.Equal(t, "grpc", otlpProtocol())

	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL", "http/protobuf")
	assert.Equal(t, "http/protobuf", otlpProtocol(), "the metrics-specific variable wins")
}

func TestOTLPEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	assert.Empty(t, otlpEndpoint())

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
	assert.Equal(t, "http://collector:4318", otlpEndpoint())
}

func TestInitWithOTLPExporter(t *testing.T) {
	for _, proto := range []string{"grpc", "http/protobuf"} {
		t.Run(proto, func(t *testing.T) {
			t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:1")
			t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", proto)
			ctx := context.Background()
			var buf bytes.Buffer
			require.NoError(t, Init(ctx, Options{Enabled: true, ServiceName: "rd", Writer: &buf}))
			// Shutdown tries a final export to the unreachable collector;
			// its error is discarded.
			shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()
			Shutdown(shutdownCtx)
			require.NoError(t, Init(ctx, Options{}))
		})
	}
}
