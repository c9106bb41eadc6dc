package gate

import (
	"strings"

	"hostgate/internal/config"
)

// ConnectionContext is what the proxy knows about a client at handshake time.
// An absent virtual host is the empty string.
type ConnectionContext struct {
	VirtualHost   string `json:"virtual_host"`
	RemoteAddress string `json:"remote_address"`
	Username      string `json:"username"`
}

type Decision struct {
	Allowed       bool   `json:"allowed"`
	Hostname      string `json:"hostname"`
	RejectionText string `json:"rejection_text,omitempty"`
}

type Version struct {
	Protocol int    `json:"protocol"`
	Name     string `json:"name"`
}

// MotdOverride replaces the server list response for a rejected ping.
type MotdOverride struct {
	Description        string  `json:"description"`
	OnlinePlayers      int     `json:"online_players"`
	MaxPlayers         int     `json:"max_players"`
	ClearSamplePlayers bool    `json:"clear_sample_players"`
	Version            Version `json:"version"`
	ClearFavicon       bool    `json:"clear_favicon"`
}

type Settings struct {
	KickMessage string
	InvalidMotd string
	LogAllowed  bool
	LogDenied   bool
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		KickMessage: strings.ReplaceAll(cfg.Messages.KickMessage, `\n`, "\n"),
		InvalidMotd: cfg.Messages.InvalidMotd,
		LogAllowed:  cfg.Notify.LogAllowedConnections,
		LogDenied:   cfg.Notify.LogDeniedConnections,
	}
}
