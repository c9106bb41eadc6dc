package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hostgate/internal/broker"
	"hostgate/internal/constants"
	"hostgate/internal/logger"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/models"
)

// KafkaTransport publishes events as message envelopes so other systems can
// consume the admission log.
type KafkaTransport struct {
	producer broker.Producer
	topic    string
}

func NewKafkaTransport(producer broker.Producer, topic string) *KafkaTransport {
	return &KafkaTransport{producer: producer, topic: topic}
}

// NewKafkaTransportFromEndpoint accepts kafka://broker1:9092,broker2:9092/topic.
func NewKafkaTransportFromEndpoint(endpoint string, log logger.Logger) (*KafkaTransport, error) {
	brokers, topic, err := ParseKafkaEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	producer, err := broker.NewProducer(brokers, log)
	if err != nil {
		return nil, err
	}
	return NewKafkaTransport(producer, topic), nil
}

func ParseKafkaEndpoint(endpoint string) ([]string, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(endpoint), "kafka://")
	if !ok {
		return nil, "", fmt.Errorf("kafka endpoint must start with kafka://")
	}

	hosts, topic, _ := strings.Cut(rest, "/")
	topic = strings.Trim(topic, "/")
	if topic == "" {
		return nil, "", fmt.Errorf("kafka endpoint %q has no topic", endpoint)
	}

	var brokers []string
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			brokers = append(brokers, h)
		}
	}
	if len(brokers) == 0 {
		return nil, "", fmt.Errorf("kafka endpoint %q has no brokers", endpoint)
	}
	return brokers, topic, nil
}

func (t *KafkaTransport) Name() string {
	return "kafka"
}

func (t *KafkaTransport) Deliver(ctx context.Context, event Event) error {
	eventType := models.EventTypeConnectionAllowed
	if event.Kind == KindDenied {
		eventType = models.EventTypeConnectionDenied
	}

	envelope := models.NewMessageEnvelopeBuilder().
		WithID(event.ID).
		WithSource(constants.ServiceName).
		WithTimestamp(event.Timestamp).
		WithEventType(eventType, models.ServiceTypeHostgate).
		WithPayload(map[string]interface{}{
			"kind":           string(event.Kind),
			"username":       event.Username,
			"hostname":       event.Hostname,
			"remote_address": event.RemoteAddress,
			"timestamp":      event.Timestamp.UTC().Format(time.RFC3339Nano),
		}).
		Build()

	if err := t.producer.Publish(ctx, t.topic, *envelope); err != nil {
		return apperrors.ErrDeliveryFailed.WithCause(err)
	}
	return nil
}

func (t *KafkaTransport) Close() error {
	return t.producer.Close()
}
