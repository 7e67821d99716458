package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// otlpEndpoint returns the configured OTLP metrics endpoint, if any.
func otlpEndpoint() string {
	return firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"), os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
}

// otlpProtocol is "grpc" or "http/protobuf" (the default).
func otlpProtocol() string {
	p := firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL"), os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"))
	if p == "grpc" {
		return p
	}
	return "http/protobuf"
}

// buildOTLPMetricExporter creates the exporter for otlpProtocol. Both
// exporters read endpoint, headers and TLS settings from the standard
// OTEL_EXPORTER_OTLP_* variables.
func buildOTLPMetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	if otlpProtocol() == "grpc" {
		return otlpmetricgrpc.New(ctx)
	}
	return otlpmetrichttp.New(ctx)
}
