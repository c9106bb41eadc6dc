package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hostgate/internal/constants"
	"hostgate/internal/logger"
)

// Transport delivers a single event. Implementations must honour ctx.
type Transport interface {
	Deliver(ctx context.Context, event Event) error
	Name() string
	Close() error
}

// IsDisabledEndpoint reports whether endpoint turns notifications off.
func IsDisabledEndpoint(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	return endpoint == "" || endpoint == constants.WebhookPlaceholder
}

// NewTransport picks the transport from the endpoint scheme.
func NewTransport(endpoint string, timeout time.Duration, log logger.Logger) (Transport, error) {
	endpoint = strings.TrimSpace(endpoint)
	scheme, _, found := strings.Cut(endpoint, "://")
	if !found {
		return nil, fmt.Errorf("invalid notification endpoint %q", endpoint)
	}

	switch strings.ToLower(scheme) {
	case "http", "https":
		return NewWebhookTransport(endpoint, timeout), nil
	case "kafka":
		return NewKafkaTransportFromEndpoint(endpoint, log)
	default:
		return nil, fmt.Errorf("unsupported notification endpoint scheme %q", scheme)
	}
}
