package constants

import "time"

const (
	ServiceName = "hostgate"
)

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 5 * time.Second
)

const (
	DefaultDialTimeout     = 5 * time.Second
	DefaultDeliveryTimeout = 5 * time.Second
	DefaultNotifyQueueSize = 1024
	SinkCloseTimeout       = 2 * time.Second
	DefaultReloadInterval  = 60
	DefaultRedisRulesKey   = "hostgate:hostnames"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SamplerAlwaysOn                = "always_on"
	SamplerAlwaysOff               = "always_off"
	SamplerTraceIDRatio            = "traceidratio"
	SamplerParentBasedAlwaysOn     = "parentbased_always_on"
	SamplerParentBasedTraceIDRatio = "parentbased_traceidratio"

	TracerInitTimeout = 5 * time.Second
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

// WebhookPlaceholder is the value shipped in the default config. An endpoint equal to it
// disables notifications.
const WebhookPlaceholder = "YOUR_WEBHOOK_URL_HERE"

// HostnamePlaceholder is replaced in the kick message template. Case-sensitive.
const HostnamePlaceholder = "{hostname}"

const (
	DefaultKickMessage = "&cUnknown Server: {hostname}\n\n&7Please make sure you are using the correct IP"
	DefaultInvalidMotd = "&cInvalid Hostname. Please make sure you're using the correct IP address"
)

const (
	SourceTypeFile     = "file"
	SourceTypePostgres = "postgres"
	SourceTypeRedis    = "redis"
)

const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
)

const (
	PathLogin = "login"
	PathPing  = "ping"
)

const (
	EmbedColorDenied  = 15158332
	EmbedColorAllowed = 3066993
	EmbedFooter       = "Hostname Whitelist"
)
