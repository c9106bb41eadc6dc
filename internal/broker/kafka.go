package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/codes"

	"hostgate/internal/config"
	"hostgate/internal/constants"
	"hostgate/internal/logger"
	"hostgate/pkg/errors"
	"hostgate/pkg/logging"
	"hostgate/pkg/metrics"
	"hostgate/pkg/models"
	"hostgate/pkg/retry"
	"hostgate/pkg/tracing"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewKafkaProducer(brokers []string, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           constants.KafkaBatchTimeout,
		WriteTimeout:           constants.KafkaWriteTimeout,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
	return &KafkaProducer{writer: w, logger: log}
}

func (p *KafkaProducer) Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, span := tracing.StartPublishSpan(ctx, topic)
	defer span.End()

	start := time.Now()
	err = p.writer.WriteMessages(ctx,
		kafka.Message{
			Topic:   topic,
			Key:     []byte(msg.ID),
			Value:   body,
			Time:    msg.Timestamp,
			Headers: tracing.InjectKafkaHeaders(ctx, nil),
		},
	)
	metrics.ObserveKafkaWriteDuration(topic, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncKafkaMessagesWritten(topic)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type KafkaConsumer struct {
	cfg         config.KafkaConfig
	wg          sync.WaitGroup
	mu          sync.Mutex
	reader      *kafka.Reader
	logger      logger.Logger
	serviceName string
}

func NewKafkaConsumer(cfg config.KafkaConfig, log logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		cfg:         cfg,
		logger:      log,
		serviceName: constants.ServiceName,
	}
}

func (c *KafkaConsumer) SetServiceName(name string) {
	c.serviceName = name
}

// Consume reads topic until ctx is done. Messages that still fail after the
// retry policy are logged and committed so one bad event cannot stall reloads.
func (c *KafkaConsumer) Consume(ctx context.Context, topic string, handler HandlerFunc) error {
	c.logger.Infow("Creating Kafka reader",
		"topic", topic,
		"brokers", c.cfg.Brokers,
		"group_id", c.cfg.GroupID,
	)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		GroupID:  c.cfg.GroupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	c.mu.Lock()
	c.reader = reader
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeLoop(logging.WithServiceName(ctx, c.serviceName), reader, topic, handler)
	}()

	<-ctx.Done()
	return ctx.Err()
}

func (c *KafkaConsumer) consumeLoop(ctx context.Context, reader *kafka.Reader, topic string, handler HandlerFunc) {
	c.logger.InfowCtx(ctx, "Started consuming", "topic", topic)

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.InfowCtx(ctx, "Stopped consuming",
					"topic", topic,
					"reason", "context canceled",
				)
				return
			}
			c.logger.ErrorwCtx(ctx, "Error fetching kafka message",
				"error", err,
				"topic", topic,
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		metrics.IncKafkaMessagesRead(topic)
		c.handleMessage(ctx, m, topic, handler)
		c.commit(ctx, reader, m, topic)
	}
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, m kafka.Message, topic string, handler HandlerFunc) {
	msgCtx, span := tracing.StartConsumeSpan(ctx, m)
	defer span.End()

	var envelope models.MessageEnvelope
	if err := json.Unmarshal(m.Value, &envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed envelope")
		c.logger.ErrorwCtx(msgCtx, "Failed to unmarshal message",
			"error", err,
			"topic", topic,
		)
		return
	}

	if err := c.processMessageWithRetry(msgCtx, envelope, handler, topic); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		c.logger.ErrorwCtx(msgCtx, "Failed to process message after retries, skipping",
			"error", err,
			"topic", topic,
			"id", envelope.ID,
		)
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, reader *kafka.Reader, m kafka.Message, topic string) {
	if err := reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
		c.logger.ErrorwCtx(ctx, "Failed to commit message",
			"error", err,
			"topic", topic,
		)
	}
}

func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	reader := c.reader
	c.mu.Unlock()

	var err error
	if reader != nil {
		err = reader.Close()
	}
	c.wg.Wait()
	return err
}

func (c *KafkaConsumer) processMessageWithRetry(ctx context.Context, envelope models.MessageEnvelope, handler HandlerFunc, topic string) error {
	policy := retry.DefaultPolicy()

	if c.cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = c.cfg.Retry.MaxAttempts
	}
	if c.cfg.Retry.InitialInterval > 0 {
		policy.InitialInterval = c.cfg.Retry.InitialInterval
	}
	if c.cfg.Retry.MaxInterval > 0 {
		policy.MaxInterval = c.cfg.Retry.MaxInterval
	}
	if c.cfg.Retry.Multiplier > 0 {
		policy.Multiplier = c.cfg.Retry.Multiplier
	}
	if c.cfg.Retry.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = c.cfg.Retry.MaxElapsedTime
	}

	return retry.DoWithCallback(ctx, "kafka:"+topic, policy, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.RecoverPanic(r)
				c.logger.ErrorwCtx(ctx, "Panic recovered during message processing",
					"error", err,
					"topic", topic,
				)
			}
		}()
		return handler(ctx, envelope)
	}, func(attempt int, err error, nextDelay time.Duration) {
		c.logger.WarnwCtx(ctx, "Retrying message processing",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
			"topic", topic,
		)
	})
}
