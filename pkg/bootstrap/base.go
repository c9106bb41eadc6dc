package bootstrap

import (
	"context"
	"fmt"

	"hostgate/internal/broker"
	"hostgate/internal/config"
	"hostgate/internal/logger"
)

// Base carries what every entry point needs: config, logger and, when a
// kafka cluster is configured, the broker clients for rule update events.
type Base struct {
	Config   *config.Config
	Logger   logger.Logger
	Producer broker.Producer
	Consumer broker.Consumer
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config: cfg,
		Logger: log,
	}
}

// InitBroker is a no-op when broker.kafka is not configured.
func (b *Base) InitBroker(serviceName string) error {
	kafkaCfg := b.Config.Broker.Kafka
	if !kafkaCfg.Enabled() {
		b.Logger.Info("Kafka not configured, rule update events disabled")
		return nil
	}

	producer, err := broker.NewProducer(kafkaCfg.Brokers, b.Logger)
	if err != nil {
		return fmt.Errorf("failed to create producer: %w", err)
	}

	consumer, err := broker.NewConsumer(kafkaCfg, b.Logger)
	if err != nil {
		producer.Close()
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	if serviceName != "" {
		consumer.SetServiceName(serviceName)
	}

	b.Producer = producer
	b.Consumer = consumer
	return nil
}

func (b *Base) ShutdownBroker() []error {
	var errs []error

	if b.Producer != nil {
		if err := b.Producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close error: %w", err))
		}
	}

	if b.Consumer != nil {
		if err := b.Consumer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("consumer close error: %w", err))
		}
	}

	return errs
}

func (b *Base) Shutdown(ctx context.Context, additionalShutdown func(ctx context.Context) []error) error {
	b.Logger.Info("Shutting down hostgate...")

	var errs []error

	if additionalShutdown != nil {
		errs = append(errs, additionalShutdown(ctx)...)
	}

	errs = append(errs, b.ShutdownBroker()...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	b.Logger.Info("hostgate exited successfully")
	return nil
}
