package whitelist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgate/pkg/models"
)

type capturingProducer struct {
	topic string
	msgs  []models.MessageEnvelope
}

func (p *capturingProducer) Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error {
	p.topic = topic
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func TestEventProducer_PublishRulesUpdated(t *testing.T) {
	producer := &capturingProducer{}
	ep := NewEventProducer(producer, "hostgate.rules")

	require.NoError(t, ep.PublishRulesUpdated(context.Background(), models.ActionCreate, "*.example.com", "admin"))

	require.Len(t, producer.msgs, 1)
	msg := producer.msgs[0]
	assert.Equal(t, "hostgate.rules", producer.topic)
	assert.Equal(t, models.EventTypeHostnameRulesUpdated, msg.Metadata.EventType)
	assert.Equal(t, models.ServiceTypeHostgate, msg.Metadata.ServiceType)
	assert.Equal(t, "*.example.com", msg.Payload["pattern"])
	assert.Equal(t, "create", msg.Payload["action"])
	assert.NotEmpty(t, msg.ID)
}

func TestEventProducer_NoTopicIsNoop(t *testing.T) {
	producer := &capturingProducer{}
	require.NoError(t, NewEventProducer(producer, "").PublishRulesUpdated(context.Background(), models.ActionReload, "", ""))
	assert.Empty(t, producer.msgs)
}
