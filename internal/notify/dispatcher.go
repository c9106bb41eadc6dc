package notify

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"hostgate/internal/config"
	"hostgate/internal/logger"
	"hostgate/pkg/circuitbreaker"
)

type TransportFactory func(endpoint string) (Transport, error)

// Dispatcher is the entry point used by the gate. It holds the sink for the
// configured endpoint, or none when notifications are disabled.
type Dispatcher struct {
	current  atomic.Pointer[Sink]
	mu       sync.Mutex
	cfg      config.NotifyConfig
	cbCfg    config.CircuitBreakerConfig
	factory  TransportFactory
	logger   logger.Logger
	endpoint string
}

func NewDispatcher(cfg config.NotifyConfig, cbCfg config.CircuitBreakerConfig, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		cfg:    cfg,
		cbCfg:  cbCfg,
		logger: log,
	}
	d.factory = func(endpoint string) (Transport, error) {
		return NewTransport(endpoint, d.cfg.Timeout, log)
	}
	return d
}

func (d *Dispatcher) WithTransportFactory(factory TransportFactory) *Dispatcher {
	d.factory = factory
	return d
}

// Configure builds a sink for endpoint, publishes it and closes the previous
// one. A disabled endpoint leaves no sink.
func (d *Dispatcher) Configure(endpoint string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	endpoint = strings.TrimSpace(endpoint)

	var next *Sink
	if !IsDisabledEndpoint(endpoint) {
		transport, err := d.factory(endpoint)
		if err != nil {
			return fmt.Errorf("failed to create notification transport: %w", err)
		}
		next = NewSink(transport, SinkOptions{
			QueueSize: d.cfg.QueueSize,
			Timeout:   d.cfg.Timeout,
			Breaker:   d.newBreaker(transport.Name()),
		}, d.logger)
	}

	old := d.current.Swap(next)
	d.endpoint = endpoint

	if next != nil {
		d.logger.Infow("Notifications enabled", "transport", next.transport.Name())
	} else {
		d.logger.Infow("Notifications disabled")
	}

	if old != nil {
		if err := old.Close(); err != nil {
			d.logger.Warnw("Failed to close previous notification sink", "error", err)
		}
	}
	return nil
}

// UpdateSettings applies new queue and timeout settings on the next Configure.
func (d *Dispatcher) UpdateSettings(cfg config.NotifyConfig, cbCfg config.CircuitBreakerConfig) {
	d.mu.Lock()
	d.cfg = cfg
	d.cbCfg = cbCfg
	d.mu.Unlock()
}

func (d *Dispatcher) newBreaker(transportName string) *circuitbreaker.Wrapper {
	if !d.cbCfg.Enabled {
		return nil
	}
	return circuitbreaker.NewWrapper(circuitbreaker.Config{
		Name:         "notify-" + transportName,
		MaxRequests:  d.cbCfg.MaxRequests,
		Interval:     d.cbCfg.Interval,
		Timeout:      d.cbCfg.Timeout,
		FailureRatio: d.cbCfg.FailureRatio,
		MinRequests:  d.cbCfg.MinRequests,
	})
}

// Enabled is a single atomic load.
func (d *Dispatcher) Enabled() bool {
	return d.current.Load() != nil
}

// Enqueue never blocks. It reports whether the event was accepted.
func (d *Dispatcher) Enqueue(event Event) bool {
	s := d.current.Load()
	if s == nil {
		return false
	}
	return s.Enqueue(event)
}

func (d *Dispatcher) Endpoint() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.endpoint
}

func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old := d.current.Swap(nil); old != nil {
		return old.Close()
	}
	return nil
}
