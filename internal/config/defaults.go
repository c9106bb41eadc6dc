package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigYAML = `# Hostname Whitelist Configuration

server:
  enabled: true
  port: 8080
  read_timeout: 5s
  write_timeout: 5s

logging:
  level: info

whitelist:
  # file, postgres or redis
  source: file
  # One hostname or IP pattern per line, * is a wildcard
  file: hostnames.txt
  reload:
    interval_seconds: 60
    watch: true

messages:
  # Message shown when player connects with invalid hostname
  # Placeholders: {hostname}
  kick_message: "&cUnknown Server: {hostname}\n\n&7Please make sure you are using the correct IP"
  # MOTD shown for invalid hostname pings
  invalid_motd: "&cInvalid Hostname. Please make sure you're using the correct IP address"

notify:
  # Discord webhook URL (https://...) or kafka://broker1:9092,broker2:9092/topic
  # Leave empty or set to "YOUR_WEBHOOK_URL_HERE" to disable
  endpoint: "YOUR_WEBHOOK_URL_HERE"
  log_allowed_connections: false
  log_denied_connections: false
  queue_size: 1024
  timeout: 5s

tracing:
  # Export spans for notification delivery and rule update events over OTLP/gRPC
  enabled: false
  otlp:
    endpoint: localhost:4317
    insecure: true
`

// WriteDefault writes the default config file, creating parent directories as needed.
// An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("failed to write default config %s: %w", path, err)
	}
	return nil
}

// ResolvePath resolves rel against the directory of the config file unless rel is absolute.
func ResolvePath(configFile, rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(filepath.Dir(configFile), rel)
}
