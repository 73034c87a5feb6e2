package exporters

import (
	"context"
	"time"

	"lenz-rewards/pkg/config"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
)

// ProvideTraceExporter builds the OTLP span exporter on the transport the
// config selects. The OTLP env variables still apply when no endpoint is set.
func ProvideTraceExporter(cfg *config.Config) (*otlptrace.Exporter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var client otlptrace.Client
	switch cfg.Otel.Protocol {
	case "http":
		client = newHTTPClient(cfg.Otel.Endpoint)
	default:
		client = newGrpcClient(cfg.Otel.Endpoint)
	}

	return otlptrace.New(ctx, client)
}
