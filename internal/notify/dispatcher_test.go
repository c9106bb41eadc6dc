package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgate/internal/config"
	"hostgate/internal/constants"
	"hostgate/internal/logger"
)

type factoryRecorder struct {
	mu         sync.Mutex
	endpoints  []string
	transports []*recordingTransport
}

func (f *factoryRecorder) build(endpoint string) (Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &recordingTransport{}
	f.endpoints = append(f.endpoints, endpoint)
	f.transports = append(f.transports, t)
	return t, nil
}

func newTestDispatcher(f *factoryRecorder) *Dispatcher {
	cfg := config.NotifyConfig{QueueSize: 8, Timeout: time.Second}
	return NewDispatcher(cfg, config.CircuitBreakerConfig{}, logger.NopLogger()).WithTransportFactory(f.build)
}

func TestDispatcher_DisabledEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "  ", constants.WebhookPlaceholder} {
		f := &factoryRecorder{}
		d := newTestDispatcher(f)

		require.NoError(t, d.Configure(endpoint))
		assert.False(t, d.Enabled())
		assert.False(t, d.Enqueue(NewEvent(KindDenied, "a", "evil.io", "1.2.3.4")))
		assert.Empty(t, f.endpoints)
		require.NoError(t, d.Close())
	}
}

func TestDispatcher_ConfigureReplacesSink(t *testing.T) {
	f := &factoryRecorder{}
	d := newTestDispatcher(f)
	defer d.Close()

	require.NoError(t, d.Configure("https://first.example/hook"))
	assert.True(t, d.Enabled())
	assert.Equal(t, "https://first.example/hook", d.Endpoint())

	require.NoError(t, d.Configure("https://second.example/hook"))
	require.Len(t, f.transports, 2)
	assert.True(t, f.transports[0].closed.Load())
	assert.False(t, f.transports[1].closed.Load())

	require.True(t, d.Enqueue(NewEvent(KindAllowed, "a", "example.com", "1.2.3.4")))
	require.Eventually(t, func() bool { return f.transports[1].calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, f.transports[0].calls.Load())
}

func TestDispatcher_DisableClosesSink(t *testing.T) {
	f := &factoryRecorder{}
	d := newTestDispatcher(f)

	require.NoError(t, d.Configure("https://first.example/hook"))
	require.NoError(t, d.Configure(""))

	assert.False(t, d.Enabled())
	assert.True(t, f.transports[0].closed.Load())
}

func TestDispatcher_FactoryErrorKeepsCurrentSink(t *testing.T) {
	f := &factoryRecorder{}
	d := newTestDispatcher(f)
	defer d.Close()

	require.NoError(t, d.Configure("https://first.example/hook"))

	d.WithTransportFactory(func(string) (Transport, error) { return nil, errors.New("bad endpoint") })
	assert.Error(t, d.Configure("kafka://nowhere"))
	assert.True(t, d.Enabled())
	assert.Equal(t, "https://first.example/hook", d.Endpoint())
}

func TestDispatcher_ConcurrentEnqueueDuringReconfigure(t *testing.T) {
	f := &factoryRecorder{}
	d := newTestDispatcher(f)
	defer d.Close()
	require.NoError(t, d.Configure("https://first.example/hook"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d.Enqueue(NewEvent(KindDenied, "bot", "evil.io", "1.2.3.4"))
			}
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Configure("https://next.example/hook"))
	}
	wg.Wait()

	assert.True(t, d.Enabled())
}
