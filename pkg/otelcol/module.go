package otelcol

import (
	"context"

	"lenz-rewards/pkg/otelcol/exporters"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Module wires the OTLP trace pipeline and the prometheus-backed meter
// provider, and installs both as the otel globals.
var Module = fx.Module("otelcol",
	fx.Provide(
		exporters.ProvideTraceExporter,
		NewTracerProvider,
		NewMeterProvider,
	),
)

func NewTracerProvider(lc fx.Lifecycle, exporter *otlptrace.Exporter) trace.TracerProvider {
	tp := ProvideTrace(exporter)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp
}

func NewMeterProvider(lc fx.Lifecycle) (metric.MeterProvider, error) {
	reader, err := otelprom.New()
	if err != nil {
		return nil, err
	}

	mp := ProvideMetric(reader)
	otel.SetMeterProvider(mp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return mp.Shutdown(ctx)
		},
	})

	return mp, nil
}
