package whitelist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hostgate/internal/broker"
	"hostgate/internal/constants"
	"hostgate/pkg/models"
)

// EventProducer tells other hostgate instances sharing the rule source to reload.
type EventProducer struct {
	producer broker.Producer
	topic    string
}

func NewEventProducer(producer broker.Producer, topic string) *EventProducer {
	return &EventProducer{producer: producer, topic: topic}
}

func (p *EventProducer) PublishRulesUpdated(ctx context.Context, action, pattern, changedBy string) error {
	if p.producer == nil || p.topic == "" {
		return nil
	}

	event := models.ConfigUpdateEvent{
		EventType:   models.EventTypeHostnameRulesUpdated,
		ServiceType: models.ServiceTypeHostgate,
		Pattern:     pattern,
		Action:      action,
		Timestamp:   time.Now().UTC(),
		ChangedBy:   changedBy,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal config event: %w", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(eventJSON, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}

	envelope := models.NewMessageEnvelopeBuilder().
		WithSource(constants.ServiceName).
		WithTimestamp(event.Timestamp).
		WithEventType(event.EventType, event.ServiceType).
		WithPayload(payload).
		Build()

	return p.producer.Publish(ctx, p.topic, *envelope)
}
