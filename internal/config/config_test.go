package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgate/internal/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_WritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	assert.Equal(t, constants.SourceTypeFile, cfg.Whitelist.Source)
	assert.Equal(t, "hostnames.txt", cfg.Whitelist.File)
	assert.Equal(t, constants.DefaultKickMessage, cfg.Messages.KickMessage)
	assert.Equal(t, constants.DefaultInvalidMotd, cfg.Messages.InvalidMotd)
	assert.Equal(t, constants.WebhookPlaceholder, cfg.Notify.Endpoint)
	assert.False(t, cfg.Notify.LogAllowedConnections)
	assert.False(t, cfg.Notify.LogDeniedConnections)
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 1024, cfg.Notify.QueueSize)
}

func TestLoadConfig_ParsesValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
messages:
  kick_message: "&cBad: {hostname}"
  invalid_motd: "&cnope"
notify:
  endpoint: "https://discord.example/api/webhooks/1/abc"
  log_allowed_connections: true
  log_denied_connections: true
  timeout: 2s
  queue_size: 16
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "&cBad: {hostname}", cfg.Messages.KickMessage)
	assert.Equal(t, "&cnope", cfg.Messages.InvalidMotd)
	assert.Equal(t, "https://discord.example/api/webhooks/1/abc", cfg.Notify.Endpoint)
	assert.True(t, cfg.Notify.LogAllowedConnections)
	assert.True(t, cfg.Notify.LogDeniedConnections)
	assert.Equal(t, 2*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 16, cfg.Notify.QueueSize)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	t.Setenv("HOSTGATE_NOTIFY_ENDPOINT", "https://hooks.example/endpoint")
	t.Setenv("BROKER_KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example/endpoint", cfg.Notify.Endpoint)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Broker.Kafka.Brokers)
}

func TestLoadConfig_KickMessageNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Messages.KickMessage, "\n\n&7")
}

func TestLoadConfig_TracingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, constants.ServiceName, cfg.Tracing.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Tracing.OTLP.Endpoint)
	assert.Equal(t, constants.SamplerParentBasedAlwaysOn, cfg.Tracing.Sampler.Type)
}

func TestValidateStatic(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Enabled: true, Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second},
			Whitelist: WhitelistConfig{Source: constants.SourceTypeFile, File: "hostnames.txt"},
			Messages:  MessagesConfig{KickMessage: constants.DefaultKickMessage},
			Notify:    NotifyConfig{QueueSize: 8, Timeout: time.Second},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "placeholder endpoint", mutate: func(c *Config) { c.Notify.Endpoint = constants.WebhookPlaceholder }},
		{name: "kafka endpoint", mutate: func(c *Config) { c.Notify.Endpoint = "kafka://k1:9092/hostgate-events" }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantError: true},
		{name: "server disabled ignores port", mutate: func(c *Config) { c.Server = ServerConfig{} }},
		{name: "unknown source", mutate: func(c *Config) { c.Whitelist.Source = "mongo" }, wantError: true},
		{name: "postgres without host", mutate: func(c *Config) { c.Whitelist.Source = constants.SourceTypePostgres }, wantError: true},
		{name: "redis without key", mutate: func(c *Config) {
			c.Whitelist.Source = constants.SourceTypeRedis
			c.Database.Redis = RedisConfig{Host: "localhost", Port: 6379}
		}, wantError: true},
		{name: "empty kick message", mutate: func(c *Config) { c.Messages.KickMessage = "" }, wantError: true},
		{name: "zero queue", mutate: func(c *Config) { c.Notify.QueueSize = 0 }, wantError: true},
		{name: "multi broker kafka endpoint", mutate: func(c *Config) { c.Notify.Endpoint = "kafka://k1:9092,k2:9092/hostgate-events" }},
		{name: "endpoint without scheme", mutate: func(c *Config) { c.Notify.Endpoint = "discord.com/api/webhooks/1" }, wantError: true},
		{name: "ftp endpoint", mutate: func(c *Config) { c.Notify.Endpoint = "ftp://example.com" }, wantError: true},
		{name: "tracing enabled", mutate: func(c *Config) {
			c.Tracing = TracingConfig{Enabled: true, OTLP: OTLPConfig{Endpoint: "otel:4317"}, Sampler: SamplerConfig{Type: "traceidratio", Param: 0.1}}
		}},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.Tracing = TracingConfig{Enabled: true} }, wantError: true},
		{name: "tracing bad ratio", mutate: func(c *Config) {
			c.Tracing = TracingConfig{Enabled: true, OTLP: OTLPConfig{Endpoint: "otel:4317"}, Sampler: SamplerConfig{Type: "parentbased_traceidratio", Param: 1.5}}
		}, wantError: true},
		{name: "tracing unknown sampler", mutate: func(c *Config) {
			c.Tracing = TracingConfig{Enabled: true, OTLP: OTLPConfig{Endpoint: "otel:4317"}, Sampler: SamplerConfig{Type: "sometimes"}}
		}, wantError: true},
		{name: "kafka without group", mutate: func(c *Config) {
			c.Broker.Kafka = KafkaConfig{Brokers: []string{"k1:9092"}, ConfigUpdateTopic: "updates", Retry: RetryConfig{Multiplier: 2}}
		}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateStatic(cfg)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/hostgate", "hostnames.txt"), ResolvePath("/etc/hostgate/config.yml", "hostnames.txt"))
	assert.Equal(t, "/var/lib/rules.txt", ResolvePath("/etc/hostgate/config.yml", "/var/lib/rules.txt"))
	assert.Equal(t, "", ResolvePath("/etc/hostgate/config.yml", ""))
}
