package tracing

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"hostgate/internal/config"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()

	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})
	return recorder
}

func header(headers []kafka.Header, key string) (string, bool) {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}

func TestKafkaHeaders_RoundTrip(t *testing.T) {
	installRecorder(t)

	ctx, span := StartPublishSpan(context.Background(), "hostgate.rules")
	defer span.End()

	headers := InjectKafkaHeaders(ctx, []kafka.Header{{Key: "source", Value: []byte("hostgate")}})

	source, ok := header(headers, "source")
	require.True(t, ok)
	assert.Equal(t, "hostgate", source)
	_, ok = header(headers, "traceparent")
	require.True(t, ok)

	extracted := trace.SpanContextFromContext(ExtractKafkaHeaders(context.Background(), headers))
	assert.True(t, extracted.IsRemote())
	assert.Equal(t, span.SpanContext().TraceID(), extracted.TraceID())
	assert.Equal(t, span.SpanContext().SpanID(), extracted.SpanID())
}

func TestInjectKafkaHeaders_ReplacesStaleTraceparent(t *testing.T) {
	installRecorder(t)

	ctx, span := StartPublishSpan(context.Background(), "hostgate.rules")
	defer span.End()

	stale := "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"
	headers := InjectKafkaHeaders(ctx, []kafka.Header{{Key: "traceparent", Value: []byte(stale)}})

	require.Len(t, headers, 1)
	value, _ := header(headers, "traceparent")
	assert.NotEqual(t, stale, value)
	assert.Contains(t, value, span.SpanContext().TraceID().String())
}

func TestStartConsumeSpan_ContinuesTrace(t *testing.T) {
	recorder := installRecorder(t)

	pubCtx, pub := StartPublishSpan(context.Background(), "hostgate.rules")
	msg := kafka.Message{
		Topic:     "hostgate.rules",
		Partition: 2,
		Offset:    41,
		Headers:   InjectKafkaHeaders(pubCtx, nil),
	}
	pub.End()

	_, consume := StartConsumeSpan(context.Background(), msg)
	consume.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "kafka.consume", ended[1].Name())
	assert.Equal(t, trace.SpanKindConsumer, ended[1].SpanKind())
	assert.Equal(t, pub.SpanContext().TraceID(), ended[1].SpanContext().TraceID())
	assert.Equal(t, pub.SpanContext().SpanID(), ended[1].Parent().SpanID())
}

func TestStartConsumeSpan_WithoutHeadersStartsNewTrace(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartConsumeSpan(context.Background(), kafka.Message{Topic: "hostgate.rules"})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.False(t, ended[0].Parent().IsValid())
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.SamplerConfig
		prefix string
	}{
		{"default", config.SamplerConfig{}, "AlwaysOnSampler"},
		{"always on", config.SamplerConfig{Type: "always_on"}, "AlwaysOnSampler"},
		{"always off", config.SamplerConfig{Type: "always_off"}, "AlwaysOffSampler"},
		{"ratio", config.SamplerConfig{Type: "traceidratio", Param: 0.25}, "TraceIDRatioBased{0.25}"},
		{"parent based", config.SamplerConfig{Type: "parentbased_always_on"}, "ParentBased{root:AlwaysOnSampler"},
		{"parent based ratio", config.SamplerConfig{Type: "parentbased_traceidratio", Param: 0.5}, "ParentBased{root:TraceIDRatioBased{0.5}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, NewSampler(tt.cfg).Description(), tt.prefix)
		})
	}
}

func TestInit_Disabled(t *testing.T) {
	prevPropagator := otel.GetTextMapPropagator()
	t.Cleanup(func() { otel.SetTextMapPropagator(prevPropagator) })

	p, err := Init(context.Background(), config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}
