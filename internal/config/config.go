package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig
	Logging        LoggingConfig
	Whitelist      WhitelistConfig
	Messages       MessagesConfig
	Notify         NotifyConfig
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Database       DatabaseConfig
	Broker         BrokerConfig
	Management     ManagementConfig
	Tracing        TracingConfig
}

type ServerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WhitelistConfig struct {
	Source string       `mapstructure:"source"` // "file", "postgres", "redis"
	File   string       `mapstructure:"file"`
	Reload ReloadConfig `mapstructure:"reload"`
}

type ReloadConfig struct {
	IntervalSeconds       int  `mapstructure:"interval_seconds"`
	JitterMaxMilliseconds int  `mapstructure:"jitter_max_milliseconds"`
	Watch                 bool `mapstructure:"watch"`
}

type MessagesConfig struct {
	KickMessage string `mapstructure:"kick_message"`
	InvalidMotd string `mapstructure:"invalid_motd"`
}

type NotifyConfig struct {
	Endpoint              string        `mapstructure:"endpoint"`
	LogAllowedConnections bool          `mapstructure:"log_allowed_connections"`
	LogDeniedConnections  bool          `mapstructure:"log_denied_connections"`
	QueueSize             int           `mapstructure:"queue_size"`
	Timeout               time.Duration `mapstructure:"timeout"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig
	Redis         RedisConfig
	RunMigrations bool `mapstructure:"run_migrations"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	RulesKey string `mapstructure:"rules_key"`
}

type BrokerConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers           []string    `mapstructure:"brokers"`
	GroupID           string      `mapstructure:"group_id"`
	ConfigUpdateTopic string      `mapstructure:"config_update_topic"`
	Retry             RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type ManagementConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// SamplerConfig.Type is one of always_on, always_off, traceidratio,
// parentbased_always_on or parentbased_traceidratio.
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

// Enabled reports whether a reload event consumer can be started.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.ConfigUpdateTopic != ""
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
