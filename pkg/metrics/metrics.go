package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Total number of admission decisions by path and outcome (count)",
		},
		[]string{"path", "outcome"},
	)

	GateDecisionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gate_decision_duration_us",
			Help:    "Duration of a single admission decision in microseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"path"},
	)

	WhitelistActiveRules = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "whitelist_active_rules",
			Help: "Number of hostname patterns in the active rule set (count)",
		},
	)

	WhitelistGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "whitelist_generation",
			Help: "Generation number of the active rule set",
		},
	)

	WhitelistReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whitelist_reloads_total",
			Help: "Total number of rule reload attempts (count)",
		},
		[]string{"source", "status"},
	)

	WhitelistReloadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whitelist_reload_duration_ms",
			Help:    "Duration of rule reloads in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"source"},
	)

	NotifyQueueSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_queue_size",
			Help: "Current number of events waiting for delivery (count)",
		},
	)

	NotifyEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_events_total",
			Help: "Total number of notification events by status (count)",
		},
		[]string{"transport", "status"},
	)

	NotifyDeliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notify_delivery_duration_ms",
			Help:    "Duration of notification deliveries in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"transport"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"operation"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	KafkaMessagesReadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_read_total",
			Help: "Total number of messages read from Kafka (count)",
		},
		[]string{"topic"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"topic"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"database", "operation"},
	)
)

func RegisterGateMetrics() {
	prometheus.MustRegister(GateDecisionsTotal)
	prometheus.MustRegister(GateDecisionDuration)
}

func RegisterWhitelistMetrics() {
	prometheus.MustRegister(WhitelistActiveRules)
	prometheus.MustRegister(WhitelistGeneration)
	prometheus.MustRegister(WhitelistReloadsTotal)
	prometheus.MustRegister(WhitelistReloadDuration)
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
}

func RegisterNotifyMetrics() {
	prometheus.MustRegister(NotifyQueueSize)
	prometheus.MustRegister(NotifyEventsTotal)
	prometheus.MustRegister(NotifyDeliveryDuration)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(RetryAttemptsTotal)
	prometheus.MustRegister(KafkaMessagesReadTotal)
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
	prometheus.MustRegister(KafkaWriteDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func RegisterManagementMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func IncGateDecision(path, outcome string) {
	GateDecisionsTotal.WithLabelValues(path, outcome).Inc()
}

func ObserveGateDecisionDuration(path string, duration time.Duration) {
	GateDecisionDuration.WithLabelValues(path).Observe(float64(duration.Microseconds()))
}

func SetWhitelistRules(count int, generation uint64) {
	WhitelistActiveRules.Set(float64(count))
	WhitelistGeneration.Set(float64(generation))
}

func IncWhitelistReload(source, status string) {
	WhitelistReloadsTotal.WithLabelValues(source, status).Inc()
}

func ObserveWhitelistReloadDuration(source string, duration time.Duration) {
	WhitelistReloadDuration.WithLabelValues(source).Observe(float64(duration.Milliseconds()))
}

func SetNotifyQueueSize(size int) {
	NotifyQueueSize.Set(float64(size))
}

func IncNotifyEvent(transport, status string) {
	NotifyEventsTotal.WithLabelValues(transport, status).Inc()
}

func ObserveNotifyDeliveryDuration(transport string, duration time.Duration) {
	NotifyDeliveryDuration.WithLabelValues(transport).Observe(float64(duration.Milliseconds()))
}

func IncRetryAttempt(operation string) {
	RetryAttemptsTotal.WithLabelValues(operation).Inc()
}

func IncKafkaMessagesRead(topic string) {
	KafkaMessagesReadTotal.WithLabelValues(topic).Inc()
}

func IncKafkaMessagesWritten(topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(topic).Inc()
}

func ObserveKafkaWriteDuration(topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(topic).Observe(float64(duration.Milliseconds()))
}

func IncDatabaseQuery(database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(database, operation).Observe(float64(duration.Milliseconds()))
}
