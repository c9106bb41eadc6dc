package notify

import (
	"context"
	"sync"
	"sync/atomic"
)

type recordingTransport struct {
	mu     sync.Mutex
	events []Event
	calls  atomic.Int64
	closed atomic.Bool
	err    error
}

func (t *recordingTransport) Name() string { return "recording" }

func (t *recordingTransport) Deliver(ctx context.Context, event Event) error {
	t.calls.Add(1)
	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
	return t.err
}

func (t *recordingTransport) Close() error {
	t.closed.Store(true)
	return nil
}

func (t *recordingTransport) delivered() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}

// blockingTransport holds every delivery until its context ends.
type blockingTransport struct {
	started   chan struct{}
	cancelled atomic.Int64
	once      sync.Once
}

func newBlockingTransport() *blockingTransport {
	return &blockingTransport{started: make(chan struct{})}
}

func (t *blockingTransport) Name() string { return "blocking" }

func (t *blockingTransport) Deliver(ctx context.Context, event Event) error {
	t.once.Do(func() { close(t.started) })
	<-ctx.Done()
	t.cancelled.Add(1)
	return ctx.Err()
}

func (t *blockingTransport) Close() error { return nil }

type panickingTransport struct {
	recordingTransport
}

func (t *panickingTransport) Deliver(ctx context.Context, event Event) error {
	if event.Username == "panic" {
		panic("transport bug")
	}
	return t.recordingTransport.Deliver(ctx, event)
}
