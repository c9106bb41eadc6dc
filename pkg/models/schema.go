package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateMessageEnvelope(msg *MessageEnvelope) error {
	if msg == nil {
		return &ValidationError{Field: "envelope", Message: "message envelope cannot be nil"}
	}

	if msg.ID == "" {
		return &ValidationError{Field: "id", Message: "message ID is required"}
	}

	if msg.Source == "" {
		return &ValidationError{Field: "source", Message: "message source is required"}
	}

	if msg.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "message timestamp is required"}
	}

	return nil
}

func (msg *MessageEnvelope) GetPayloadString(name string) (string, bool) {
	if msg.Payload == nil {
		return "", false
	}
	value, ok := msg.Payload[name].(string)
	return value, ok
}
