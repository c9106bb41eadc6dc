package models

import "time"

// MessageEnvelope is the wire format for everything hostgate puts on or reads from Kafka.
type MessageEnvelope struct {
	ID        string                 `json:"id"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  Metadata               `json:"metadata"`
}

type Metadata struct {
	EventType    string `json:"event_type,omitempty"`
	ServiceType  string `json:"service_type,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
}
