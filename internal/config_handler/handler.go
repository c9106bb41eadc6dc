package config_handler

import (
	"context"
	"encoding/json"

	"hostgate/internal/logger"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/models"
)

type RulesReloader interface {
	ReloadRules(ctx context.Context) error
}

// Handler reacts to rule update events published by whoever edits the shared
// rule source and triggers a reload of the local rule set.
type Handler struct {
	expectedEventType   string
	expectedServiceType string
	reloader            RulesReloader
	logger              logger.Logger
}

func NewHandler(reloader RulesReloader, log logger.Logger) *Handler {
	return &Handler{
		expectedEventType:   models.EventTypeHostnameRulesUpdated,
		expectedServiceType: models.ServiceTypeHostgate,
		reloader:            reloader,
		logger:              log,
	}
}

func (h *Handler) HandleConfigUpdateEvent(ctx context.Context, envelope models.MessageEnvelope) error {
	eventType := envelope.Metadata.EventType
	if eventType == "" {
		eventType, _ = envelope.GetPayloadString("event_type")
	}
	if eventType == "" {
		h.logger.Warnw("Config event missing event_type", "id", envelope.ID)
		return nil
	}
	if eventType != h.expectedEventType {
		return nil
	}

	serviceType := envelope.Metadata.ServiceType
	if serviceType == "" {
		serviceType, _ = envelope.GetPayloadString("service_type")
	}
	if serviceType != "" && serviceType != h.expectedServiceType {
		return nil
	}

	var event models.ConfigUpdateEvent
	eventJSON, err := json.Marshal(envelope.Payload)
	if err != nil {
		return apperrors.ErrValidation.WithCause(err)
	}
	if err := json.Unmarshal(eventJSON, &event); err != nil {
		h.logger.Errorw("Failed to unmarshal config event", "error", err, "id", envelope.ID)
		return apperrors.ErrValidation.WithCause(err)
	}

	h.logger.Infow("Received hostname rules update",
		"action", event.Action,
		"pattern", event.Pattern,
		"changed_by", event.ChangedBy,
	)

	if err := h.reloader.ReloadRules(ctx); err != nil {
		h.logger.Errorw("Failed to reload rules after config update", "error", err)
		return err
	}

	h.logger.Infow("Rules reloaded after config update", "action", event.Action)
	return nil
}
