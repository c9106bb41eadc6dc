package broker

import (
	"fmt"

	"hostgate/internal/config"
	"hostgate/internal/logger"
)

func NewProducer(brokers []string, log logger.Logger) (Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka producer requires at least one broker")
	}
	return NewKafkaProducer(brokers, log), nil
}

func NewConsumer(cfg config.KafkaConfig, log logger.Logger) (Consumer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("kafka consumer requires brokers and a config update topic")
	}
	return NewKafkaConsumer(cfg, log), nil
}
