package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageEnvelopeBuilder struct {
	envelope *MessageEnvelope
}

func NewMessageEnvelopeBuilder() *MessageEnvelopeBuilder {
	return &MessageEnvelopeBuilder{
		envelope: &MessageEnvelope{
			Payload: make(map[string]interface{}),
		},
	}
}

func (b *MessageEnvelopeBuilder) WithID(id string) *MessageEnvelopeBuilder {
	b.envelope.ID = id
	return b
}

func (b *MessageEnvelopeBuilder) WithSource(source string) *MessageEnvelopeBuilder {
	b.envelope.Source = source
	return b
}

func (b *MessageEnvelopeBuilder) WithTimestamp(timestamp time.Time) *MessageEnvelopeBuilder {
	b.envelope.Timestamp = timestamp
	return b
}

func (b *MessageEnvelopeBuilder) WithPayload(payload map[string]interface{}) *MessageEnvelopeBuilder {
	b.envelope.Payload = payload
	return b
}

func (b *MessageEnvelopeBuilder) WithEventType(eventType, serviceType string) *MessageEnvelopeBuilder {
	b.envelope.Metadata.EventType = eventType
	b.envelope.Metadata.ServiceType = serviceType
	return b
}

func (b *MessageEnvelopeBuilder) WithConnectionID(id string) *MessageEnvelopeBuilder {
	b.envelope.Metadata.ConnectionID = id
	return b
}

// Build fills in a random id and the current time when they were not set.
func (b *MessageEnvelopeBuilder) Build() *MessageEnvelope {
	if b.envelope.ID == "" {
		b.envelope.ID = uuid.NewString()
	}
	if b.envelope.Timestamp.IsZero() {
		b.envelope.Timestamp = time.Now().UTC()
	}
	return b.envelope
}
