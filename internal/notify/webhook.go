package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"hostgate/internal/constants"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/tracing"
)

const maxDrainBytes = 64 << 10

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Color       int         `json:"color"`
	Timestamp   string      `json:"timestamp"`
	Footer      EmbedFooter `json:"footer"`
}

type WebhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// WebhookTransport posts Discord style embeds. Field values are escaped by the
// JSON encoder, so usernames and hostnames from clients cannot break the payload.
type WebhookTransport struct {
	url    string
	client *http.Client
}

func NewWebhookTransport(url string, timeout time.Duration) *WebhookTransport {
	if timeout <= 0 {
		timeout = constants.DefaultDeliveryTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: constants.DefaultDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          2,
		IdleConnTimeout:       90 * time.Second,
	}
	return &WebhookTransport{
		url: url,
		client: &http.Client{
			Transport: tracing.WrapTransport(transport),
			Timeout:   timeout,
		},
	}
}

func (t *WebhookTransport) Name() string {
	return "webhook"
}

func (t *WebhookTransport) Deliver(ctx context.Context, event Event) error {
	body, err := json.Marshal(BuildWebhookPayload(event))
	if err != nil {
		return apperrors.ErrDeliveryFailed.WithCause(fmt.Errorf("failed to marshal webhook payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return apperrors.ErrDeliveryFailed.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constants.ServiceName)

	resp, err := t.client.Do(req)
	if err != nil {
		return apperrors.ErrDeliveryFailed.WithCause(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return apperrors.ErrDeliveryRejected.WithMessage(fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}

func (t *WebhookTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// BuildWebhookPayload renders the embed for event. A denied event with no
// hostname shows "none".
func BuildWebhookPayload(event Event) WebhookPayload {
	title := "✅ Connection allowed"
	color := constants.EmbedColorAllowed
	hostname := event.Hostname

	if event.Kind == KindDenied {
		title = "🚫 Connection denied"
		color = constants.EmbedColorDenied
		if hostname == "" {
			hostname = "none"
		}
	}

	return WebhookPayload{
		Embeds: []Embed{{
			Title:       title,
			Description: fmt.Sprintf("**Player:** `%s`\n**Hostname:** `%s`\n**IP:** `%s`", event.Username, hostname, event.RemoteAddress),
			Color:       color,
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339Nano),
			Footer:      EmbedFooter{Text: constants.EmbedFooter},
		}},
	}
}
