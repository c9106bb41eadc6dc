package notify

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hostgate/internal/constants"
	"hostgate/internal/logger"
	"hostgate/pkg/circuitbreaker"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
	"hostgate/pkg/tracing"
)

type SinkOptions struct {
	QueueSize    int
	Timeout      time.Duration
	CloseTimeout time.Duration
	Breaker      *circuitbreaker.Wrapper
}

// Sink owns a bounded queue and exactly one delivery worker. The queue channel
// is never closed, shutdown is signalled through done.
type Sink struct {
	transport Transport
	breaker   *circuitbreaker.Wrapper
	queue     chan Event
	done      chan struct{}
	finished  chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	timeout   time.Duration
	closeWait time.Duration
	logger    logger.Logger
}

func NewSink(transport Transport, opts SinkOptions, log logger.Logger) *Sink {
	if opts.QueueSize < 1 {
		opts.QueueSize = constants.DefaultNotifyQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultDeliveryTimeout
	}
	if opts.CloseTimeout <= 0 {
		opts.CloseTimeout = constants.SinkCloseTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Sink{
		transport: transport,
		breaker:   opts.Breaker,
		queue:     make(chan Event, opts.QueueSize),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		timeout:   opts.Timeout,
		closeWait: opts.CloseTimeout,
		logger:    log,
	}

	go s.run()
	return s
}

// Enqueue hands event to the worker without blocking. It returns false when
// the sink is closed or the queue is full, in which case the event is dropped.
func (s *Sink) Enqueue(event Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.queue <- event:
		metrics.SetNotifyQueueSize(len(s.queue))
		return true
	default:
		metrics.IncNotifyEvent(s.transport.Name(), "dropped")
		s.logger.Debugw("Dropped notification",
			"transport", s.transport.Name(),
			"kind", string(event.Kind),
			"error", apperrors.ErrQueueFull,
		)
		return false
	}
}

func (s *Sink) run() {
	defer close(s.finished)

	for {
		select {
		case <-s.done:
			return
		case event := <-s.queue:
			metrics.SetNotifyQueueSize(len(s.queue))
			s.deliver(event)
		}
	}
}

func (s *Sink) deliver(event Event) {
	if s.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	name := s.transport.Name()
	ctx, span := tracing.Tracer().Start(ctx, "notify.deliver",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("notify.transport", name),
			attribute.String("notify.kind", string(event.Kind)),
			attribute.String("notify.event_id", event.ID),
		),
	)
	defer span.End()

	start := time.Now()
	err := s.send(ctx, event)
	metrics.ObserveNotifyDeliveryDuration(name, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		metrics.IncNotifyEvent(name, "failed")
		s.logger.Warnw("Failed to deliver notification",
			"transport", name,
			"kind", string(event.Kind),
			"event_id", event.ID,
			"error", err,
		)
		return
	}
	metrics.IncNotifyEvent(name, "delivered")
}

func (s *Sink) send(ctx context.Context, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.RecoverPanic(r)
		}
	}()

	if s.breaker == nil {
		return s.transport.Deliver(ctx, event)
	}
	return s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.transport.Deliver(ctx, event)
	})
}

// Close stops intake, cancels the in-flight delivery and abandons queued
// events. It waits at most the close timeout for the worker to exit.
func (s *Sink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()

		select {
		case <-s.finished:
		case <-time.After(s.closeWait):
			s.logger.Warnw("Notification worker did not stop in time", "transport", s.transport.Name())
		}

		if abandoned := len(s.queue); abandoned > 0 {
			metrics.IncNotifyEvent(s.transport.Name(), "abandoned")
			s.logger.Debugw("Abandoned queued notifications", "count", abandoned)
		}
		metrics.SetNotifyQueueSize(0)
		err = s.transport.Close()
	})
	return err
}
