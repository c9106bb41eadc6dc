package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgate/internal/constants"
	apperrors "hostgate/pkg/errors"
)

func captureServer(t *testing.T, status int) (*httptest.Server, <-chan []byte) {
	t.Helper()
	bodies := make(chan []byte, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, bodies
}

func TestWebhookTransport_DeliversEmbed(t *testing.T) {
	srv, bodies := captureServer(t, http.StatusNoContent)
	transport := NewWebhookTransport(srv.URL, time.Second)
	defer transport.Close()

	event := NewEvent(KindDenied, "Steve", "evil.io", "203.0.113.9")
	require.NoError(t, transport.Deliver(context.Background(), event))

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal(<-bodies, &payload))
	require.Len(t, payload.Embeds, 1)

	embed := payload.Embeds[0]
	assert.Equal(t, "🚫 Connection denied", embed.Title)
	assert.Equal(t, constants.EmbedColorDenied, embed.Color)
	assert.Equal(t, constants.EmbedFooter, embed.Footer.Text)
	assert.Equal(t, "**Player:** `Steve`\n**Hostname:** `evil.io`\n**IP:** `203.0.113.9`", embed.Description)

	ts, err := time.Parse(time.RFC3339Nano, embed.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(event.Timestamp))
}

func TestWebhookTransport_EscapesUntrustedFields(t *testing.T) {
	srv, bodies := captureServer(t, http.StatusOK)
	transport := NewWebhookTransport(srv.URL, time.Second)

	nasty := "a\"b\\c\nd\te\x01"
	require.NoError(t, transport.Deliver(context.Background(), NewEvent(KindDenied, nasty, nasty, "1.2.3.4")))

	raw := <-bodies
	assert.True(t, json.Valid(raw))

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload.Embeds[0].Description, "**Player:** `"+nasty+"`")
	assert.Contains(t, payload.Embeds[0].Description, "**Hostname:** `"+nasty+"`")
}

func TestWebhookTransport_NonSuccessStatus(t *testing.T) {
	srv, _ := captureServer(t, http.StatusTooManyRequests)
	transport := NewWebhookTransport(srv.URL, time.Second)

	err := transport.Deliver(context.Background(), NewEvent(KindAllowed, "a", "example.com", "1.2.3.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDeliveryRejected)
}

func TestWebhookTransport_Unreachable(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	transport := NewWebhookTransport(url, time.Second)
	err := transport.Deliver(context.Background(), NewEvent(KindAllowed, "a", "example.com", "1.2.3.4"))
	assert.ErrorIs(t, err, apperrors.ErrDeliveryFailed)
}

func TestWebhookTransport_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	transport := NewWebhookTransport(srv.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := transport.Deliver(ctx, NewEvent(KindAllowed, "a", "example.com", "1.2.3.4"))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestBuildWebhookPayload(t *testing.T) {
	tests := []struct {
		name         string
		event        Event
		wantTitle    string
		wantColor    int
		wantHostname string
	}{
		{
			name:         "allowed",
			event:        Event{Kind: KindAllowed, Username: "Alex", Hostname: "play.example.com", RemoteAddress: "10.0.0.1"},
			wantTitle:    "✅ Connection allowed",
			wantColor:    constants.EmbedColorAllowed,
			wantHostname: "play.example.com",
		},
		{
			name:         "denied without hostname",
			event:        Event{Kind: KindDenied, Username: "Alex", RemoteAddress: "10.0.0.1"},
			wantTitle:    "🚫 Connection denied",
			wantColor:    constants.EmbedColorDenied,
			wantHostname: "none",
		},
		{
			name:         "allowed keeps empty hostname",
			event:        Event{Kind: KindAllowed, Username: "Alex", RemoteAddress: "10.0.0.1"},
			wantTitle:    "✅ Connection allowed",
			wantColor:    constants.EmbedColorAllowed,
			wantHostname: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := BuildWebhookPayload(tt.event).Embeds[0]
			assert.Equal(t, tt.wantTitle, embed.Title)
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Contains(t, embed.Description, "**Hostname:** `"+tt.wantHostname+"`")
		})
	}
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport("https://discord.example/api/webhooks/1/abc", time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, "webhook", tr.Name())

	_, err = NewTransport("ftp://example.com", time.Second, nil)
	assert.Error(t, err)

	_, err = NewTransport("example.com", time.Second, nil)
	assert.Error(t, err)
}

func TestIsDisabledEndpoint(t *testing.T) {
	assert.True(t, IsDisabledEndpoint(""))
	assert.True(t, IsDisabledEndpoint("   "))
	assert.True(t, IsDisabledEndpoint(constants.WebhookPlaceholder))
	assert.False(t, IsDisabledEndpoint("https://discord.example/api/webhooks/1/abc"))
}
