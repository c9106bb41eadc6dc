package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"hostgate/internal/config"
	"hostgate/internal/constants"
)

// Provider owns the SDK tracer provider registered by Init. A nil sdk means
// tracing is off and the global no-op provider stays in place.
type Provider struct {
	sdk *sdktrace.TracerProvider
}

func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Shutdown flushes buffered spans to the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// Init installs the W3C trace context propagator and, when tracing is enabled,
// an OTLP/gRPC exporter as the global tracer provider.
func Init(ctx context.Context, cfg config.TracingConfig) (*Provider, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return &Provider{}, nil
	}

	name := cfg.ServiceName
	if name == "" {
		name = constants.ServiceName
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create tracing resource: %w", err)
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLP.Endpoint)}
	if cfg.OTLP.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	initCtx, cancel := context.WithTimeout(ctx, constants.TracerInitTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(initCtx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(NewSampler(cfg.Sampler)),
	)
	otel.SetTracerProvider(sdk)

	return &Provider{sdk: sdk}, nil
}

// NewSampler maps the configured sampler type. Unknown types sample everything.
func NewSampler(cfg config.SamplerConfig) sdktrace.Sampler {
	switch cfg.Type {
	case constants.SamplerAlwaysOff:
		return sdktrace.NeverSample()
	case constants.SamplerTraceIDRatio:
		return sdktrace.TraceIDRatioBased(cfg.Param)
	case constants.SamplerParentBasedAlwaysOn:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case constants.SamplerParentBasedTraceIDRatio:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Param))
	default:
		return sdktrace.AlwaysSample()
	}
}

// Tracer resolves the global provider on every call, so spans follow a
// provider installed after package init.
func Tracer() trace.Tracer {
	return otel.Tracer(constants.ServiceName)
}
