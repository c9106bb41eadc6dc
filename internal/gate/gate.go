package gate

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"hostgate/internal/constants"
	"hostgate/internal/logger"
	"hostgate/internal/notify"
	"hostgate/internal/whitelist"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
)

type Notifier interface {
	Enabled() bool
	Enqueue(event notify.Event) bool
}

// Gate answers admission questions for logins and status pings. Every
// dependency it reads on the decision path sits behind an atomic pointer, so
// reloads never block a handshake.
type Gate struct {
	rules    *whitelist.Store
	notifier Notifier
	settings atomic.Pointer[Settings]
	logger   logger.Logger
}

func New(rules *whitelist.Store, notifier Notifier, settings Settings, log logger.Logger) *Gate {
	g := &Gate{
		rules:    rules,
		notifier: notifier,
		logger:   log,
	}
	g.UpdateSettings(settings)
	return g
}

func (g *Gate) UpdateSettings(settings Settings) {
	s := settings
	g.settings.Store(&s)
}

func (g *Gate) Settings() Settings {
	return *g.settings.Load()
}

func (g *Gate) OnHandshake(ctx context.Context, conn ConnectionContext) (decision Decision) {
	start := time.Now()
	settings := g.settings.Load()

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.RecoverPanic(r)
			g.logger.ErrorwCtx(ctx, "Recovered panic in handshake decision", "error", err, "hostname", conn.VirtualHost)
			decision = denied(conn.VirtualHost, settings)
		}
		outcome := constants.OutcomeAllowed
		if !decision.Allowed {
			outcome = constants.OutcomeDenied
		}
		metrics.IncGateDecision(constants.PathLogin, outcome)
		metrics.ObserveGateDecisionDuration(constants.PathLogin, time.Since(start))
	}()

	if g.rules.Decide(conn.VirtualHost) {
		if settings.LogAllowed {
			g.emit(ctx, notify.KindAllowed, conn)
		}
		return Decision{Allowed: true, Hostname: whitelist.NormalizeHostname(conn.VirtualHost)}
	}

	g.logger.InfowCtx(ctx, "Denied connection",
		"username", conn.Username,
		"hostname", conn.VirtualHost,
	)
	if settings.LogDenied {
		g.emit(ctx, notify.KindDenied, conn)
	}
	return denied(conn.VirtualHost, settings)
}

// OnPing returns nil when the ping may pass through unchanged.
func (g *Gate) OnPing(ctx context.Context, conn ConnectionContext) (override *MotdOverride) {
	start := time.Now()
	settings := g.settings.Load()

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.RecoverPanic(r)
			g.logger.ErrorwCtx(ctx, "Recovered panic in ping decision", "error", err, "hostname", conn.VirtualHost)
			override = maskedMotd(settings)
		}
		outcome := constants.OutcomeAllowed
		if override != nil {
			outcome = constants.OutcomeDenied
		}
		metrics.IncGateDecision(constants.PathPing, outcome)
		metrics.ObserveGateDecisionDuration(constants.PathPing, time.Since(start))
	}()

	if g.rules.Decide(conn.VirtualHost) {
		return nil
	}
	return maskedMotd(settings)
}

// emit swallows notifier panics; the decision already computed stands.
func (g *Gate) emit(ctx context.Context, kind notify.Kind, conn ConnectionContext) {
	if g.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorwCtx(ctx, "Recovered panic while emitting notification",
				"error", apperrors.RecoverPanic(r),
				"kind", string(kind),
				"hostname", conn.VirtualHost,
			)
		}
	}()
	if !g.notifier.Enabled() {
		return
	}
	g.notifier.Enqueue(notify.NewEvent(kind, conn.Username, conn.VirtualHost, conn.RemoteAddress))
}

// RenderKickMessage substitutes every {hostname} in template with the raw
// virtual host, port included.
func RenderKickMessage(template, virtualHost string) string {
	return strings.ReplaceAll(template, constants.HostnamePlaceholder, virtualHost)
}

func denied(virtualHost string, settings *Settings) Decision {
	return Decision{
		Allowed:       false,
		Hostname:      whitelist.NormalizeHostname(virtualHost),
		RejectionText: RenderKickMessage(settings.KickMessage, virtualHost),
	}
}

func maskedMotd(settings *Settings) *MotdOverride {
	return &MotdOverride{
		Description:        settings.InvalidMotd,
		OnlinePlayers:      0,
		MaxPlayers:         0,
		ClearSamplePlayers: true,
		Version:            Version{Protocol: 0, Name: ""},
		ClearFavicon:       true,
	}
}
