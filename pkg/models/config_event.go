package models

import "time"

// ConfigUpdateEvent announces that the hostname rules in a shared source changed.
type ConfigUpdateEvent struct {
	EventType   string    `json:"event_type"`
	ServiceType string    `json:"service_type"`
	Pattern     string    `json:"pattern,omitempty"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	ChangedBy   string    `json:"changed_by,omitempty"`
}

const (
	EventTypeHostnameRulesUpdated = "hostname_rules_updated"
	EventTypeConnectionAllowed    = "connection_allowed"
	EventTypeConnectionDenied     = "connection_denied"
)

const (
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionReload = "reload"
)

const ServiceTypeHostgate = "hostgate"
