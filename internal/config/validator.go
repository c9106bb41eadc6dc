package config

import (
	"fmt"
	"strings"

	"hostgate/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateWhitelist(cfg.Whitelist, cfg.Database); err != nil {
		errors = append(errors, err)
	}

	if err := validateMessages(cfg.Messages); err != nil {
		errors = append(errors, err)
	}

	if err := validateNotify(cfg.Notify); err != nil {
		errors = append(errors, err)
	}

	if err := validateKafka(cfg.Broker.Kafka); err != nil {
		errors = append(errors, err)
	}

	if err := validateTracing(cfg.Tracing); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeout <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeout <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateWhitelist(cfg WhitelistConfig, db DatabaseConfig) error {
	switch strings.ToLower(cfg.Source) {
	case constants.SourceTypeFile:
		if strings.TrimSpace(cfg.File) == "" {
			return &ValidationError{
				Field:   "whitelist.file",
				Message: "rules file is required when source is file",
			}
		}
	case constants.SourceTypePostgres:
		return validatePostgres(db.Postgres)
	case constants.SourceTypeRedis:
		return validateRedis(db.Redis)
	default:
		return &ValidationError{
			Field:   "whitelist.source",
			Message: fmt.Sprintf("unknown rules source: %s (supported: file, postgres, redis)", cfg.Source),
		}
	}

	if cfg.Reload.IntervalSeconds < 0 {
		return &ValidationError{
			Field:   "whitelist.reload.interval_seconds",
			Message: "interval must be non-negative",
		}
	}

	return nil
}

// Templates are operator free text, only the kick message must be present so a
// denied player always sees something.
func validateMessages(cfg MessagesConfig) error {
	if cfg.KickMessage == "" {
		return &ValidationError{
			Field:   "messages.kick_message",
			Message: "kick message must not be empty",
		}
	}
	return nil
}

func validateNotify(cfg NotifyConfig) error {
	if cfg.QueueSize < 1 {
		return &ValidationError{
			Field:   "notify.queue_size",
			Message: fmt.Sprintf("queue size must be positive, got %d", cfg.QueueSize),
		}
	}

	if cfg.Timeout <= 0 {
		return &ValidationError{
			Field:   "notify.timeout",
			Message: "timeout must be positive",
		}
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" || endpoint == constants.WebhookPlaceholder {
		return nil
	}

	// Only the scheme is checked here, kafka endpoints carry a broker list in the host part.
	scheme, rest, found := strings.Cut(endpoint, "://")
	if !found || rest == "" {
		return &ValidationError{
			Field:   "notify.endpoint",
			Message: fmt.Sprintf("invalid endpoint: %q", endpoint),
		}
	}

	switch strings.ToLower(scheme) {
	case "http", "https", "kafka":
		return nil
	default:
		return &ValidationError{
			Field:   "notify.endpoint",
			Message: fmt.Sprintf("unsupported endpoint scheme: %q (supported: http, https, kafka)", scheme),
		}
	}
}

func validatePostgres(cfg PostgresConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "database.postgres.host",
			Message: "PostgreSQL host is required",
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.User == "" {
		return &ValidationError{
			Field:   "database.postgres.user",
			Message: "PostgreSQL user is required",
		}
	}

	if cfg.DBName == "" {
		return &ValidationError{
			Field:   "database.postgres.dbname",
			Message: "PostgreSQL database name is required",
		}
	}

	validSSLModes := map[string]bool{
		"disable": true, "allow": true, "prefer": true,
		"require": true, "verify-ca": true, "verify-full": true,
	}
	if cfg.SSLMode != "" && !validSSLModes[strings.ToLower(cfg.SSLMode)] {
		return &ValidationError{
			Field:   "database.postgres.sslmode",
			Message: fmt.Sprintf("invalid SSL mode: %s (valid: disable, allow, prefer, require, verify-ca, verify-full)", cfg.SSLMode),
		}
	}

	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "database.redis.host",
			Message: "Redis host is required",
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.redis.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.RulesKey == "" {
		return &ValidationError{
			Field:   "database.redis.rules_key",
			Message: "rules key is required",
		}
	}

	return nil
}

func validateKafka(cfg KafkaConfig) error {
	if !cfg.Enabled() {
		return nil
	}

	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.GroupID == "" {
		return &ValidationError{
			Field:   "broker.kafka.group_id",
			Message: "Kafka consumer group ID is required",
		}
	}

	if cfg.Retry.MaxAttempts < 0 {
		return &ValidationError{
			Field:   "broker.kafka.retry.max_attempts",
			Message: "max_attempts must be non-negative",
		}
	}

	if cfg.Retry.Multiplier <= 0 {
		return &ValidationError{
			Field:   "broker.kafka.retry.multiplier",
			Message: "multiplier must be positive",
		}
	}

	return nil
}

func validateTracing(cfg TracingConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if strings.TrimSpace(cfg.OTLP.Endpoint) == "" {
		return &ValidationError{
			Field:   "tracing.otlp.endpoint",
			Message: "OTLP endpoint is required when tracing is enabled",
		}
	}

	switch cfg.Sampler.Type {
	case "", constants.SamplerAlwaysOn, constants.SamplerAlwaysOff, constants.SamplerParentBasedAlwaysOn:
	case constants.SamplerTraceIDRatio, constants.SamplerParentBasedTraceIDRatio:
		if cfg.Sampler.Param < 0 || cfg.Sampler.Param > 1 {
			return &ValidationError{
				Field:   "tracing.sampler.param",
				Message: fmt.Sprintf("sampling ratio must be between 0 and 1, got %v", cfg.Sampler.Param),
			}
		}
	default:
		return &ValidationError{
			Field:   "tracing.sampler.type",
			Message: fmt.Sprintf("unknown sampler type %q", cfg.Sampler.Type),
		}
	}
	return nil
}
