package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"hostgate/internal/constants"
)

const envPrefix = "HOSTGATE"

// Loader owns a viper instance bound to one config file so the file can be re-read
// and watched after the initial load.
type Loader struct {
	v    *viper.Viper
	path string
	mu   sync.Mutex
}

func NewLoader(configFile string) *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configFile)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVariables(v)

	return &Loader{v: v, path: configFile}
}

func LoadConfig(configFile string) (*Config, error) {
	return NewLoader(configFile).Load()
}

// Load reads the config file, writing the default one first if it does not exist.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		if err := WriteDefault(l.path); err != nil {
			return nil, err
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", l.path, err)
	}

	return l.decode()
}

// Watch re-decodes the file on every change and hands the result to onChange.
// Decoding or validation failures are passed as err with a nil config.
func (l *Loader) Watch(onChange func(cfg *Config, err error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()
		onChange(cfg, err)
	})
	l.v.WatchConfig()
}

func (l *Loader) Path() string {
	return l.path
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(l.v, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("whitelist.source", constants.SourceTypeFile)
	v.SetDefault("whitelist.file", "hostnames.txt")
	v.SetDefault("whitelist.reload.interval_seconds", constants.DefaultReloadInterval)
	v.SetDefault("whitelist.reload.jitter_max_milliseconds", 0)
	v.SetDefault("whitelist.reload.watch", true)

	v.SetDefault("messages.kick_message", constants.DefaultKickMessage)
	v.SetDefault("messages.invalid_motd", constants.DefaultInvalidMotd)

	v.SetDefault("notify.endpoint", constants.WebhookPlaceholder)
	v.SetDefault("notify.log_allowed_connections", false)
	v.SetDefault("notify.log_denied_connections", false)
	v.SetDefault("notify.queue_size", constants.DefaultNotifyQueueSize)
	v.SetDefault("notify.timeout", constants.DefaultDeliveryTimeout.String())

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 1)
	v.SetDefault("circuit_breaker.interval", "60s")
	v.SetDefault("circuit_breaker.timeout", "30s")
	v.SetDefault("circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("circuit_breaker.min_requests", 5)

	v.SetDefault("database.redis.rules_key", constants.DefaultRedisRulesKey)
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("broker.kafka.retry.max_attempts", 3)
	v.SetDefault("broker.kafka.retry.initial_interval", "1s")
	v.SetDefault("broker.kafka.retry.max_interval", "30s")
	v.SetDefault("broker.kafka.retry.multiplier", 2.0)

	v.SetDefault("management.rate_limit.enabled", true)
	v.SetDefault("management.rate_limit.rps", 50.0)
	v.SetDefault("management.rate_limit.burst", 100)
	v.SetDefault("management.rate_limit.cleanup_interval", 300)
	v.SetDefault("management.rate_limit.max_age", 600)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.otlp.endpoint", "localhost:4317")
	v.SetDefault("tracing.otlp.insecure", true)
	v.SetDefault("tracing.sampler.type", constants.SamplerParentBasedAlwaysOn)
	v.SetDefault("tracing.sampler.param", 1.0)
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("notify.endpoint", "HOSTGATE_NOTIFY_ENDPOINT", "DISCORD_WEBHOOK_URL")

	v.BindEnv("database.postgres.host", "DATABASE_POSTGRES_HOST")
	v.BindEnv("database.postgres.port", "DATABASE_POSTGRES_PORT")
	v.BindEnv("database.postgres.user", "DATABASE_POSTGRES_USER")
	v.BindEnv("database.postgres.password", "DATABASE_POSTGRES_PASSWORD")
	v.BindEnv("database.postgres.dbname", "DATABASE_POSTGRES_DBNAME")

	v.BindEnv("database.redis.host", "DATABASE_REDIS_HOST")
	v.BindEnv("database.redis.port", "DATABASE_REDIS_PORT")
	v.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD")

	v.BindEnv("broker.kafka.group_id", "BROKER_KAFKA_GROUP_ID")
	v.BindEnv("broker.kafka.config_update_topic", "BROKER_KAFKA_CONFIG_UPDATE_TOPIC")

	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("logging.level", "LOGGING_LEVEL")

	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")
	v.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	v.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
}

func applyEnvOverrides(v *viper.Viper, cfg *Config) error {
	brokersEnv := os.Getenv("BROKER_KAFKA_BROKERS")
	if brokersEnv == "" {
		brokersEnv = v.GetString("BROKER_KAFKA_BROKERS")
	}
	if brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Broker.Kafka.Brokers = brokers
		}
	}

	return nil
}
