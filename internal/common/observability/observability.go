// internal/common/observability/observability.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	requestCounter otelmetric.Int64Counter
	requestLatency otelmetric.Float64Histogram
}

// New wires an otel meter provider backed by the Prometheus exporter and,
// when jaegerEndpoint is non-empty, a tracer provider exporting to Jaeger.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"requests.processed",
		otelmetric.WithDescription("Number of requests processed"),
	)

	requestLatency, _ := meter.Float64Histogram(
		"requests.duration",
		otelmetric.WithDescription("Request processing duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.requestCounter = requestCounter
	o.requestLatency = requestLatency

	if jaegerEndpoint != "" {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
			return o
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(resource.NewSchemaless(
				attribute.String("service.name", serviceName),
			)),
		)
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(serviceName)
	}

	return o
}

// StartSpan starts a request span. A no-op when tracing is disabled.
func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if o.tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("noop").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name)
}

func (o *Observability) RecordRequest(ctx context.Context, route, status string) {
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("route", route),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRequestDuration(ctx context.Context, duration time.Duration, route string) {
	if o.requestLatency != nil {
		o.requestLatency.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("route", route),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
